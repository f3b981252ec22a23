package repository

import (
	"context"

	"github.com/beanbook/beanbook/internal/orders/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.OrderRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.OrderRecord, error) {
	var records []domain.OrderRecord
	err := db.WithContext(ctx).
		Order("order_date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) PurchasedProductIDs(ctx context.Context, db *gorm.DB) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.OrderRecord{}).
		Where("product_id IS NOT NULL").
		Distinct().
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
