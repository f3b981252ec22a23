package service

import (
	"context"
	"strconv"
	"strings"

	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	"github.com/beanbook/beanbook/internal/orders/domain"
)

// ResolveReference maps a recommendation-shaped reference back to a
// canonical offer. Two shapes are accepted: "[productId,variantId] Title"
// and a bare title. An identity lookup that misses falls back to a title
// match; a title match is never auto-disambiguated.
func (s *Service) ResolveReference(ctx context.Context, reference string) (offersdomain.CanonicalOffer, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return offersdomain.CanonicalOffer{}, domain.ErrNoMatch
	}

	view, err := s.offers.UnorderedOffers(ctx, offersdomain.TypeFilterAny)
	if err != nil {
		return offersdomain.CanonicalOffer{}, err
	}

	if identity, title, ok := parseIdentityReference(reference); ok {
		for _, offer := range view {
			if offer.Identity == identity {
				return offer, nil
			}
		}
		// Stale ids (the catalog moved underneath the recommendation):
		// fall back to the title carried in the same reference.
		return s.resolveByTitle(reference, title, view)
	}

	return s.resolveByTitle(reference, reference, view)
}

func (s *Service) resolveByTitle(reference, title string, view []offersdomain.CanonicalOffer) (offersdomain.CanonicalOffer, error) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return offersdomain.CanonicalOffer{}, domain.ErrNoMatch
	}

	var matches []offersdomain.CanonicalOffer
	for _, offer := range view {
		if strings.Contains(strings.ToLower(offer.ParentTitle), needle) {
			matches = append(matches, offer)
		}
	}

	switch len(matches) {
	case 0:
		return offersdomain.CanonicalOffer{}, domain.ErrNoMatch
	case 1:
		return matches[0], nil
	default:
		return offersdomain.CanonicalOffer{}, &domain.AmbiguousReferenceError{
			Reference: reference,
			Matches:   matches,
		}
	}
}

// parseIdentityReference recognizes the "[productId,variantId] Title"
// shape. The trailing title may include a "Roaster - Title" prefix, which
// is stripped for the fallback lookup.
func parseIdentityReference(reference string) (offersdomain.OfferIdentity, string, bool) {
	if !strings.HasPrefix(reference, "[") {
		return offersdomain.OfferIdentity{}, "", false
	}
	end := strings.Index(reference, "]")
	if end < 0 {
		return offersdomain.OfferIdentity{}, "", false
	}

	parts := strings.Split(reference[1:end], ",")
	if len(parts) != 2 {
		return offersdomain.OfferIdentity{}, "", false
	}
	productID, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	variantID, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err1 != nil || err2 != nil {
		return offersdomain.OfferIdentity{}, "", false
	}

	title := strings.TrimSpace(reference[end+1:])
	if idx := strings.Index(title, " - "); idx >= 0 {
		title = strings.TrimSpace(title[idx+3:])
	}
	return offersdomain.OfferIdentity{ProductID: productID, VariantID: variantID}, title, true
}
