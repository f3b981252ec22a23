package domain

import (
	"time"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// OrderRecord is an immutable purchase snapshot. The product/variant refs
// are weak: they survive the referent's deletion and exist only for
// reconciliation lookups. Descriptive fields are frozen at purchase time
// and never change afterwards.
type OrderRecord struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID *int64       `gorm:"index" json:"product_id,omitempty"`
	VariantID *int64       `json:"variant_id,omitempty"`

	Quantity  int       `gorm:"not null" json:"quantity"`
	PricePaid float64   `gorm:"not null" json:"price_paid"`
	OrderDate time.Time `gorm:"not null;index" json:"order_date"`
	Notes     string    `json:"notes,omitempty"`

	RoasterName    string                                        `json:"roaster_name"`
	ProductTitle   string                                        `json:"product_title"`
	ProductURL     string                                        `json:"product_url"`
	Option1        string                                        `json:"option1"`
	Option2        string                                        `json:"option2"`
	Option3        string                                        `json:"option3"`
	Classification catalogdomain.CoffeeType                      `gorm:"type:text;not null;default:'unknown'" json:"classification"`
	OriginCountry  string                                        `json:"origin_country"`
	OriginRegion   string                                        `json:"origin_region"`
	RoastLevel     string                                        `json:"roast_level"`
	ProcessMethod  string                                        `json:"process_method"`
	Varietals      string                                        `json:"varietals"`
	Altitude       string                                        `json:"altitude"`
	Farm           string                                        `json:"farm"`
	Producer       string                                        `json:"producer"`
	TastingNotes   datatypes.JSONType[catalogdomain.TastingNotes] `json:"tasting_notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (OrderRecord) TableName() string { return "order_history" }

// Status classifies a past purchase against the live catalog.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusOutOfStock   Status = "out_of_stock"
	StatusDiscontinued Status = "discontinued"
)

// ReconciledOrder is an OrderRecord enriched with its current availability
// status. Derived at query time, never persisted.
type ReconciledOrder struct {
	OrderRecord
	Status Status `json:"status"`
}
