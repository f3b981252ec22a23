package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CoffeeType is the tri-state single-origin classification. The unknown
// branch is a first-class value so downstream logic cannot collapse it
// into a boolean.
type CoffeeType string

const (
	CoffeeTypeSingleOrigin CoffeeType = "single_origin"
	CoffeeTypeBlend        CoffeeType = "blend"
	CoffeeTypeUnknown      CoffeeType = "unknown"
)

// Display returns the operator-facing label for a classification.
func (t CoffeeType) Display() string {
	switch t {
	case CoffeeTypeSingleOrigin:
		return "Single Origin"
	case CoffeeTypeBlend:
		return "Blend"
	default:
		return "Unknown"
	}
}

// Roaster is one tracked store. Its name is the source vendor tag; the
// display name is what the operator sees in prompts and listings.
type Roaster struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName     string    `gorm:"not null" json:"display_name"`
	URL             string    `gorm:"not null" json:"url"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`

	Products []Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Roaster) TableName() string { return "roasters" }

// Product is one raw listing from a source. It exclusively owns its
// variants, options, images and attribute record; deleting the product
// deletes them all.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RoasterID   int64     `gorm:"not null;index" json:"roaster_id"`
	Title       string    `gorm:"not null" json:"title"`
	Handle      string    `json:"handle"`
	BodyHTML    string    `json:"body_html"`
	Tags        string    `json:"tags"`
	ProductType string    `json:"product_type"`
	Vendor      string    `gorm:"index" json:"vendor"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Roaster    *Roaster         `json:"-"`
	Variants   []Variant        `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Options    []ProductOption  `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
	Images     []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Attributes *AttributeRecord `gorm:"constraint:OnDelete:CASCADE" json:"attributes,omitempty"`
}

func (Product) TableName() string { return "products" }

// Variant is one purchasable unit of a product. The full set is replaced
// wholesale on every catalog refresh.
type Variant struct {
	ID             int64    `gorm:"primaryKey" json:"id"`
	ProductID      int64    `gorm:"not null;index" json:"product_id"`
	Title          string   `json:"title"`
	Available      bool     `gorm:"not null" json:"available"`
	Price          float64  `gorm:"not null" json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty"`
	Grams          int      `gorm:"not null" json:"grams"`
	Option1        string   `json:"option1"`
	Option2        string   `json:"option2"`
	Option3        string   `json:"option3"`
	SKU            string   `json:"sku"`
	Position       int      `json:"position"`
	ParentTitle    string   `gorm:"index" json:"parent_title"`
	Vendor         string   `gorm:"index" json:"vendor"`
}

func (Variant) TableName() string { return "variants" }

type ProductOption struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Name      string `json:"name"`
	Values    string `json:"values"` // comma-separated
}

func (ProductOption) TableName() string { return "product_options" }

type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
}

func (ProductImage) TableName() string { return "product_images" }

// TastingNotes groups extracted tasting descriptors by category.
type TastingNotes struct {
	Fruits  []string `json:"fruits"`
	Sweets  []string `json:"sweets"`
	Florals []string `json:"florals"`
	Spices  []string `json:"spices"`
	Others  []string `json:"others"`
}

// Empty reports whether no descriptor was extracted at all.
func (n TastingNotes) Empty() bool {
	return len(n.Fruits)+len(n.Sweets)+len(n.Florals)+len(n.Spices)+len(n.Others) == 0
}

// AttributeRecord holds AI-derived descriptive attributes for a product.
// At most one exists per product and re-extraction overwrites it wholesale,
// never field-by-field.
type AttributeRecord struct {
	ID                int64                                `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID         int64                                `gorm:"uniqueIndex;not null" json:"product_id"`
	SingleOrigin      CoffeeType                           `gorm:"type:text;not null;default:'unknown'" json:"single_origin"`
	OriginCountry     string                               `json:"origin_country"`
	OriginRegion      string                               `json:"origin_region"`
	ProcessMethod     string                               `json:"process_method"`
	RoastLevel        string                               `json:"roast_level"`
	Varietals         string                               `json:"varietals"` // comma-separated
	Altitude          string                               `json:"altitude"`
	Farm              string                               `json:"farm"`
	Producer          string                               `json:"producer"`
	TastingNotes      datatypes.JSONType[TastingNotes]     `json:"tasting_notes"`
	Confidence        float64                              `json:"confidence"`
	RestingPeriodDays *int                                 `json:"resting_period_days,omitempty"`
	LastUpdated       time.Time                            `gorm:"not null" json:"last_updated"`
}

func (AttributeRecord) TableName() string { return "product_attributes" }
