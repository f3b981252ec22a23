package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrVariantNotFound = errors.New("variant_not_found")
	ErrNoRoasters      = errors.New("no_roasters_configured")
)

// Source is the ingestion collaborator: given a store URL it returns the
// complete current listing set. The core treats the result as a total
// replacement, never an incremental merge.
type Source interface {
	FetchListing(ctx context.Context, storeURL string) ([]Product, error)
}

type RefreshSummary struct {
	Roasters int `json:"roasters"`
	Products int `json:"products"`
	Variants int `json:"variants"`
}

type Service interface {
	// Refresh pulls every configured roaster's listing and replaces the
	// stored catalog, one transaction per roaster.
	Refresh(ctx context.Context) (RefreshSummary, error)
}
