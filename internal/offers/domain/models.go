package domain

import (
	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
)

// OfferIdentity is the stable identity of a canonical offer: the raw
// product and the representative variant it was derived from.
type OfferIdentity struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id"`
}

// CanonicalOffer is the single representative purchasable unit for a
// (parent title, vendor) group, carrying the group's product URL and
// descriptive attributes. It is derived at read time and never persisted.
type CanonicalOffer struct {
	Identity OfferIdentity `json:"identity"`

	ParentTitle        string  `json:"parent_title"`
	Vendor             string  `json:"vendor"`
	RoasterDisplayName string  `json:"roaster_display_name"`
	VariantTitle       string  `json:"variant_title"`
	Price              float64 `json:"price"`
	Grams              int     `json:"grams"`
	Option1            string  `json:"option1"`
	Option2            string  `json:"option2"`
	Option3            string  `json:"option3"`
	SKU                string  `json:"sku"`
	URL                string  `json:"url"`

	Classification catalogdomain.CoffeeType `json:"classification"`

	OriginCountry     string                     `json:"origin_country"`
	OriginRegion      string                     `json:"origin_region"`
	ProcessMethod     string                     `json:"process_method"`
	RoastLevel        string                     `json:"roast_level"`
	Varietals         string                     `json:"varietals"`
	Altitude          string                     `json:"altitude"`
	Farm              string                     `json:"farm"`
	Producer          string                     `json:"producer"`
	TastingNotes      catalogdomain.TastingNotes `json:"tasting_notes"`
	Confidence        float64                    `json:"confidence"`
	RestingPeriodDays *int                       `json:"resting_period_days,omitempty"`
}
