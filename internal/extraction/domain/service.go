package domain

import (
	"context"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
)

// Input is the descriptive text handed to the extraction collaborator.
type Input struct {
	Title    string
	BodyHTML string
	Tags     []string
}

// Extraction is the collaborator's answer. Every field is optional; the
// zero value means "not stated in the listing".
type Extraction struct {
	SingleOrigin      catalogdomain.CoffeeType
	OriginCountry     string
	OriginRegion      string
	ProcessMethod     string
	RoastLevel        string
	Varietals         []string
	Altitude          string
	Farm              string
	Producer          string
	TastingNotes      catalogdomain.TastingNotes
	Confidence        float64
	RestingPeriodDays *int
}

// Extractor is the attribute-extraction collaborator contract.
type Extractor interface {
	Extract(ctx context.Context, input Input) (Extraction, error)
}

type EnhanceSummary struct {
	Attempted int `json:"attempted"`
	Extracted int `json:"extracted"`
	Failed    int `json:"failed"`
}

type Service interface {
	// EnhanceAll extracts attributes for every product missing a record
	// (every product when force is set). Individual extraction failures
	// are logged and skipped, never fatal.
	EnhanceAll(ctx context.Context, force bool) (EnhanceSummary, error)

	// EnhanceProduct extracts attributes for one product, overwriting any
	// existing record wholesale.
	EnhanceProduct(ctx context.Context, productID int64) error
}
