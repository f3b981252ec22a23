package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *OrderRecord) error

	// FindAll returns the full ledger ordered by order date descending.
	FindAll(ctx context.Context, db *gorm.DB) ([]OrderRecord, error)

	// PurchasedProductIDs returns the distinct product ids referenced by
	// any ledger entry.
	PurchasedProductIDs(ctx context.Context, db *gorm.DB) ([]int64, error)
}
