package service

import (
	"context"
	"strings"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/clock"
	"github.com/beanbook/beanbook/internal/extraction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Catalog   catalogdomain.Repository
	Extractor domain.Extractor
	Clock     clock.Clock
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	catalog   catalogdomain.Repository
	extractor domain.Extractor
	clock     clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("extraction.service"),
		catalog:   p.Catalog,
		extractor: p.Extractor,
		clock:     p.Clock,
	}
}

func (s *Service) EnhanceAll(ctx context.Context, force bool) (domain.EnhanceSummary, error) {
	var (
		products []catalogdomain.Product
		err      error
	)
	if force {
		products, err = s.catalog.FindCatalog(ctx, s.db)
	} else {
		products, err = s.catalog.FindProductsWithoutAttributes(ctx, s.db)
	}
	if err != nil {
		return domain.EnhanceSummary{}, err
	}

	summary := domain.EnhanceSummary{Attempted: len(products)}
	for _, product := range products {
		if err := s.enhance(ctx, product); err != nil {
			summary.Failed++
			s.log.Warn("extraction failed",
				zap.Int64("product_id", product.ID),
				zap.String("title", product.Title),
				zap.Error(err),
			)
			continue
		}
		summary.Extracted++
	}
	return summary, nil
}

func (s *Service) EnhanceProduct(ctx context.Context, productID int64) error {
	product, err := s.catalog.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return catalogdomain.ErrProductNotFound
	}
	return s.enhance(ctx, *product)
}

func (s *Service) enhance(ctx context.Context, product catalogdomain.Product) error {
	extracted, err := s.extractor.Extract(ctx, domain.Input{
		Title:    product.Title,
		BodyHTML: product.BodyHTML,
		Tags:     splitTags(product.Tags),
	})
	if err != nil {
		return err
	}

	record := catalogdomain.AttributeRecord{
		ProductID:         product.ID,
		SingleOrigin:      extracted.SingleOrigin,
		OriginCountry:     extracted.OriginCountry,
		OriginRegion:      extracted.OriginRegion,
		ProcessMethod:     extracted.ProcessMethod,
		RoastLevel:        extracted.RoastLevel,
		Varietals:         strings.Join(extracted.Varietals, ", "),
		Altitude:          extracted.Altitude,
		Farm:              extracted.Farm,
		Producer:          extracted.Producer,
		TastingNotes:      datatypes.NewJSONType(extracted.TastingNotes),
		Confidence:        extracted.Confidence,
		RestingPeriodDays: extracted.RestingPeriodDays,
		LastUpdated:       s.clock.Now(),
	}
	if record.SingleOrigin == "" {
		record.SingleOrigin = catalogdomain.CoffeeTypeUnknown
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.catalog.ReplaceAttributes(ctx, tx, &record)
	})
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
