package service

import (
	"context"
	"sort"
	"strings"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/config"
	"github.com/beanbook/beanbook/internal/offers/domain"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Catalog catalogdomain.Repository
	Orders  ordersdomain.Repository
	Prefs   config.Preferences
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	catalog catalogdomain.Repository
	orders  ordersdomain.Repository
	filter  config.CatalogFilter
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("offers.service"),
		catalog: p.Catalog,
		orders:  p.Orders,
		filter:  p.Prefs.Catalog,
	}
}

type groupKey struct {
	parentTitle string
	vendor      string
}

// CanonicalOffers recomputes the offer set wholesale from the current raw
// catalog: filter eligible variants, group by exact (parent title, vendor),
// take the smallest eligible package per group.
func (s *Service) CanonicalOffers(ctx context.Context) ([]domain.CanonicalOffer, error) {
	products, err := s.catalog.FindCatalog(ctx, s.db)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*catalogdomain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	groups := make(map[groupKey]*catalogdomain.Variant)
	for i := range products {
		product := &products[i]
		for j := range product.Variants {
			variant := &product.Variants[j]
			if !s.eligible(variant) {
				continue
			}
			key := groupKey{parentTitle: variant.ParentTitle, vendor: variant.Vendor}
			best, ok := groups[key]
			if !ok || variant.Grams < best.Grams ||
				(variant.Grams == best.Grams && variant.ID < best.ID) {
				groups[key] = variant
			}
		}
	}

	offers := make([]domain.CanonicalOffer, 0, len(groups))
	for _, variant := range groups {
		product := byID[variant.ProductID]
		if product == nil {
			continue
		}
		offers = append(offers, buildOffer(product, variant))
	}
	return offers, nil
}

func (s *Service) UnorderedOffers(ctx context.Context, typeFilter catalogdomain.CoffeeType) ([]domain.CanonicalOffer, error) {
	offers, err := s.CanonicalOffers(ctx)
	if err != nil {
		return nil, err
	}

	purchased, err := s.orders.PurchasedProductIDs(ctx, s.db)
	if err != nil {
		return nil, err
	}
	purchasedSet := make(map[int64]bool, len(purchased))
	for _, id := range purchased {
		purchasedSet[id] = true
	}

	filtered := offers[:0]
	for _, offer := range offers {
		if purchasedSet[offer.Identity.ProductID] {
			continue
		}
		if typeFilter != domain.TypeFilterAny && offer.Classification != typeFilter {
			continue
		}
		filtered = append(filtered, offer)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].RoasterDisplayName != filtered[j].RoasterDisplayName {
			return filtered[i].RoasterDisplayName < filtered[j].RoasterDisplayName
		}
		return filtered[i].ParentTitle < filtered[j].ParentTitle
	})
	return filtered, nil
}

// eligible is the inclusion predicate: whole-bean grind option, retail
// package weight, no excluded title substring, no excluded vendor, and
// currently available.
func (s *Service) eligible(v *catalogdomain.Variant) bool {
	if !v.Available {
		return false
	}
	if !s.wholeBean(v) {
		return false
	}
	if v.Grams < s.filter.MinGrams || v.Grams > s.filter.MaxGrams {
		return false
	}
	lowerTitle := strings.ToLower(v.ParentTitle)
	for _, excluded := range s.filter.TitleExclusions {
		if strings.Contains(lowerTitle, strings.ToLower(excluded)) {
			return false
		}
	}
	for _, excluded := range s.filter.VendorExclusions {
		if v.Vendor == excluded {
			return false
		}
	}
	return true
}

func (s *Service) wholeBean(v *catalogdomain.Variant) bool {
	match := strings.ToLower(s.filter.GrindOptionMatch)
	for _, option := range []string{v.Option1, v.Option2, v.Option3} {
		if strings.Contains(strings.ToLower(option), match) {
			return true
		}
	}
	return false
}

func buildOffer(product *catalogdomain.Product, variant *catalogdomain.Variant) domain.CanonicalOffer {
	offer := domain.CanonicalOffer{
		Identity: domain.OfferIdentity{
			ProductID: product.ID,
			VariantID: variant.ID,
		},
		ParentTitle:        variant.ParentTitle,
		Vendor:             variant.Vendor,
		RoasterDisplayName: variant.Vendor,
		VariantTitle:       variant.Title,
		Price:              variant.Price,
		Grams:              variant.Grams,
		Option1:            variant.Option1,
		Option2:            variant.Option2,
		Option3:            variant.Option3,
		SKU:                variant.SKU,
		URL:                product.URL,
	}
	if product.Roaster != nil && product.Roaster.DisplayName != "" {
		offer.RoasterDisplayName = product.Roaster.DisplayName
	}

	attrs := product.Attributes
	if attrs != nil {
		offer.OriginCountry = attrs.OriginCountry
		offer.OriginRegion = attrs.OriginRegion
		offer.ProcessMethod = attrs.ProcessMethod
		offer.RoastLevel = attrs.RoastLevel
		offer.Varietals = attrs.Varietals
		offer.Altitude = attrs.Altitude
		offer.Farm = attrs.Farm
		offer.Producer = attrs.Producer
		offer.TastingNotes = attrs.TastingNotes.Data()
		offer.Confidence = attrs.Confidence
		offer.RestingPeriodDays = attrs.RestingPeriodDays
	}

	offer.Classification = domain.Classify(variant.ParentTitle, attrs)
	return offer
}
