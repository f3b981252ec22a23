package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	UpsertRoaster(ctx context.Context, db *gorm.DB, roaster *Roaster) error
	FindRoasters(ctx context.Context, db *gorm.DB) ([]Roaster, error)

	// ReplaceProducts swaps a roaster's full listing set. The caller is
	// expected to run it inside a transaction.
	ReplaceProducts(ctx context.Context, db *gorm.DB, roasterID int64, products []Product) error

	FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindVariantByID(ctx context.Context, db *gorm.DB, id int64) (*Variant, error)
	FindCatalog(ctx context.Context, db *gorm.DB) ([]Product, error)
	FindProductsWithoutAttributes(ctx context.Context, db *gorm.DB) ([]Product, error)
	ExistingProductIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]bool, error)

	// ReplaceAttributes overwrites a product's attribute record wholesale.
	ReplaceAttributes(ctx context.Context, db *gorm.DB, record *AttributeRecord) error
}
