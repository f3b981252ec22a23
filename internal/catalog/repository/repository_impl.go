package repository

import (
	"context"
	"errors"

	"github.com/beanbook/beanbook/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertRoaster(ctx context.Context, db *gorm.DB, roaster *domain.Roaster) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "url", "last_refreshed_at"}),
		}).
		Create(roaster).Error
}

func (r *repo) FindRoasters(ctx context.Context, db *gorm.DB) ([]domain.Roaster, error) {
	var roasters []domain.Roaster
	if err := db.WithContext(ctx).Order("name asc").Find(&roasters).Error; err != nil {
		return nil, err
	}
	return roasters, nil
}

func (r *repo) ReplaceProducts(ctx context.Context, db *gorm.DB, roasterID int64, products []domain.Product) error {
	tx := db.WithContext(ctx)

	var oldIDs []int64
	if err := tx.Model(&domain.Product{}).
		Where("roaster_id = ?", roasterID).
		Pluck("id", &oldIDs).Error; err != nil {
		return err
	}
	if len(oldIDs) > 0 {
		// Children first: sqlite does not enforce the cascade unless
		// foreign keys are switched on for the connection.
		for _, model := range []any{
			&domain.Variant{}, &domain.ProductOption{}, &domain.ProductImage{}, &domain.AttributeRecord{},
		} {
			if err := tx.Where("product_id IN ?", oldIDs).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id IN ?", oldIDs).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
	}

	for i := range products {
		products[i].RoasterID = roasterID
		if err := tx.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Preload("Roaster").
		Preload("Attributes").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) FindVariantByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Variant, error) {
	var variant domain.Variant
	err := db.WithContext(ctx).First(&variant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repo) FindCatalog(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).
		Preload("Roaster").
		Preload("Variants").
		Preload("Attributes").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) FindProductsWithoutAttributes(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).
		Where("id NOT IN (?)", db.Model(&domain.AttributeRecord{}).Select("product_id")).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ExistingProductIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	var found []int64
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func (r *repo) ReplaceAttributes(ctx context.Context, db *gorm.DB, record *domain.AttributeRecord) error {
	tx := db.WithContext(ctx)
	if err := tx.Where("product_id = ?", record.ProductID).Delete(&domain.AttributeRecord{}).Error; err != nil {
		return err
	}
	record.ID = 0
	return tx.Create(record).Error
}
