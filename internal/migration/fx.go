package migration

import (
	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module creates the schema on startup so the tool is usable out of the
// box against an empty sqlite file.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(
			&catalogdomain.Roaster{},
			&catalogdomain.Product{},
			&catalogdomain.Variant{},
			&catalogdomain.ProductOption{},
			&catalogdomain.ProductImage{},
			&catalogdomain.AttributeRecord{},
			&ordersdomain.OrderRecord{},
		)
	}),
)
