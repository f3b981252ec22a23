package service

import (
	"context"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/clock"
	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	"github.com/beanbook/beanbook/internal/orders/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Catalog catalogdomain.Repository
	Offers  offersdomain.Service
	Clock   clock.Clock
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	catalog catalogdomain.Repository
	offers  offersdomain.Service
	clock   clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("orders.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		catalog: p.Catalog,
		offers:  p.Offers,
		clock:   p.Clock,
	}
}

// RecordPurchase freezes the product's current descriptive state into a
// new ledger entry. Nothing on the product side is mutated.
func (s *Service) RecordPurchase(ctx context.Context, req domain.RecordPurchaseRequest) (domain.OrderRecord, error) {
	if req.Quantity <= 0 {
		return domain.OrderRecord{}, domain.ErrInvalidQuantity
	}
	if req.PricePaid < 0 {
		return domain.OrderRecord{}, domain.ErrInvalidPrice
	}

	product, err := s.catalog.FindProductByID(ctx, s.db, req.ProductID)
	if err != nil {
		return domain.OrderRecord{}, err
	}
	if product == nil {
		return domain.OrderRecord{}, catalogdomain.ErrProductNotFound
	}

	variant, err := s.catalog.FindVariantByID(ctx, s.db, req.VariantID)
	if err != nil {
		return domain.OrderRecord{}, err
	}
	if variant == nil || variant.ProductID != product.ID {
		return domain.OrderRecord{}, catalogdomain.ErrVariantNotFound
	}

	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = s.clock.Now()
	}

	roasterName := product.Vendor
	if product.Roaster != nil && product.Roaster.DisplayName != "" {
		roasterName = product.Roaster.DisplayName
	}
	title := variant.ParentTitle
	if title == "" {
		title = product.Title
	}

	productID := product.ID
	variantID := variant.ID
	record := domain.OrderRecord{
		ID:             s.genID.Generate(),
		ProductID:      &productID,
		VariantID:      &variantID,
		Quantity:       req.Quantity,
		PricePaid:      req.PricePaid,
		OrderDate:      orderDate.UTC(),
		Notes:          req.Notes,
		RoasterName:    roasterName,
		ProductTitle:   title,
		ProductURL:     product.URL,
		Option1:        variant.Option1,
		Option2:        variant.Option2,
		Option3:        variant.Option3,
		Classification: offersdomain.Classify(title, product.Attributes),
		CreatedAt:      s.clock.Now(),
	}

	if attrs := product.Attributes; attrs != nil {
		record.OriginCountry = attrs.OriginCountry
		record.OriginRegion = attrs.OriginRegion
		record.RoastLevel = attrs.RoastLevel
		record.ProcessMethod = attrs.ProcessMethod
		record.Varietals = attrs.Varietals
		record.Altitude = attrs.Altitude
		record.Farm = attrs.Farm
		record.Producer = attrs.Producer
		record.TastingNotes = datatypes.NewJSONType(attrs.TastingNotes.Data())
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, &record)
	})
	if err != nil {
		return domain.OrderRecord{}, err
	}

	s.log.Info("purchase recorded",
		zap.Int64("product_id", product.ID),
		zap.Int64("variant_id", variant.ID),
		zap.String("title", title),
		zap.Float64("price_paid", record.PricePaid),
	)
	return record, nil
}

// Reconcile left-joins the ledger against the live canonical offer set:
// an offer exists → available; the product row survives with no eligible
// offer → out of stock; the product row is gone → discontinued.
func (s *Service) Reconcile(ctx context.Context) ([]domain.ReconciledOrder, error) {
	records, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	offers, err := s.offers.CanonicalOffers(ctx)
	if err != nil {
		return nil, err
	}
	offered := make(map[int64]bool, len(offers))
	for _, offer := range offers {
		offered[offer.Identity.ProductID] = true
	}

	ids := make([]int64, 0, len(records))
	for _, record := range records {
		if record.ProductID != nil {
			ids = append(ids, *record.ProductID)
		}
	}
	existing, err := s.catalog.ExistingProductIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	reconciled := make([]domain.ReconciledOrder, 0, len(records))
	for _, record := range records {
		status := domain.StatusDiscontinued
		if record.ProductID != nil && existing[*record.ProductID] {
			status = domain.StatusOutOfStock
			if offered[*record.ProductID] {
				status = domain.StatusAvailable
			}
		}
		reconciled = append(reconciled, domain.ReconciledOrder{OrderRecord: record, Status: status})
	}
	return reconciled, nil
}

func (s *Service) ResolveAndRecord(ctx context.Context, req domain.ResolvePurchaseRequest) (domain.OrderRecord, error) {
	offer, err := s.ResolveReference(ctx, req.Reference)
	if err != nil {
		return domain.OrderRecord{}, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return s.RecordPurchase(ctx, domain.RecordPurchaseRequest{
		ProductID: offer.Identity.ProductID,
		VariantID: offer.Identity.VariantID,
		Quantity:  quantity,
		PricePaid: offer.Price,
		OrderDate: req.OrderDate,
		Notes:     req.Notes,
	})
}
