package domain

import (
	"context"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
)

// TypeFilterAny disables classification filtering in UnorderedOffers.
const TypeFilterAny catalogdomain.CoffeeType = ""

type Service interface {
	// CanonicalOffers derives the full canonical offer set from the raw
	// catalog. Ordering is not significant; an empty catalog yields an
	// empty set, never an error.
	CanonicalOffers(ctx context.Context) ([]CanonicalOffer, error)

	// UnorderedOffers returns the canonical offers never purchased,
	// restricted to the given classification (TypeFilterAny for all),
	// ordered by roaster display name then parent title.
	UnorderedOffers(ctx context.Context, typeFilter catalogdomain.CoffeeType) ([]CanonicalOffer, error)
}
