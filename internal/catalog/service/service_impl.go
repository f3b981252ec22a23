package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/clock"
	"github.com/beanbook/beanbook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   domain.Repository
	Source domain.Source
	Prefs  config.Preferences
	Clock  clock.Clock
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   domain.Repository
	source domain.Source
	prefs  config.Preferences
	clock  clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("catalog.service"),
		repo:   p.Repo,
		source: p.Source,
		prefs:  p.Prefs,
		clock:  p.Clock,
	}
}

// Refresh replaces the stored catalog with each configured roaster's
// current listing. Every listing is fetched before anything is written,
// then the whole swap runs in one transaction: a crash leaves either the
// old or the new catalog generation, never a mix.
func (s *Service) Refresh(ctx context.Context) (domain.RefreshSummary, error) {
	if len(s.prefs.Roasters) == 0 {
		return domain.RefreshSummary{}, domain.ErrNoRoasters
	}

	names := make([]string, 0, len(s.prefs.Roasters))
	for name := range s.prefs.Roasters {
		names = append(names, name)
	}
	sort.Strings(names)

	type listing struct {
		roaster  domain.Roaster
		products []domain.Product
	}
	listings := make([]listing, 0, len(names))
	for _, name := range names {
		rc := s.prefs.Roasters[name]
		products, err := s.source.FetchListing(ctx, rc.URL)
		if err != nil {
			return domain.RefreshSummary{}, fmt.Errorf("fetch listing for %s: %w", name, err)
		}

		roaster := domain.Roaster{
			Name:            name,
			DisplayName:     rc.DisplayName,
			URL:             rc.URL,
			LastRefreshedAt: s.clock.Now(),
		}
		if roaster.DisplayName == "" {
			roaster.DisplayName = name
		}
		listings = append(listings, listing{roaster: roaster, products: products})
	}

	var summary domain.RefreshSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range listings {
			l := &listings[i]
			if err := s.repo.UpsertRoaster(ctx, tx, &l.roaster); err != nil {
				return err
			}
			stored, err := s.findRoasterID(ctx, tx, l.roaster.Name)
			if err != nil {
				return err
			}

			variants := 0
			for j := range l.products {
				l.products[j].Vendor = coalesce(l.products[j].Vendor, l.roaster.DisplayName)
				for k := range l.products[j].Variants {
					l.products[j].Variants[k].ParentTitle = l.products[j].Title
					l.products[j].Variants[k].Vendor = l.products[j].Vendor
					variants++
				}
			}
			if err := s.repo.ReplaceProducts(ctx, tx, stored, l.products); err != nil {
				return err
			}

			summary.Roasters++
			summary.Products += len(l.products)
			summary.Variants += variants

			s.log.Info("roaster refreshed",
				zap.String("roaster", l.roaster.Name),
				zap.Int("products", len(l.products)),
				zap.Int("variants", variants),
			)
		}
		return nil
	})
	if err != nil {
		return domain.RefreshSummary{}, fmt.Errorf("replace catalog: %w", err)
	}

	return summary, nil
}

func (s *Service) findRoasterID(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	roasters, err := s.repo.FindRoasters(ctx, tx)
	if err != nil {
		return 0, err
	}
	for _, r := range roasters {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("roaster %s missing after upsert", name)
}

func coalesce(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
