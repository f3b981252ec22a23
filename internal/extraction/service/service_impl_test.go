package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	catalogrepo "github.com/beanbook/beanbook/internal/catalog/repository"
	"github.com/beanbook/beanbook/internal/clock"
	"github.com/beanbook/beanbook/internal/extraction/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type extractorStub struct {
	results map[string]domain.Extraction
	errs    map[string]error
	inputs  []domain.Input
}

func (e *extractorStub) Extract(ctx context.Context, input domain.Input) (domain.Extraction, error) {
	e.inputs = append(e.inputs, input)
	if err := e.errs[input.Title]; err != nil {
		return domain.Extraction{}, err
	}
	return e.results[input.Title], nil
}

func setupExtractionService(t *testing.T, extractor domain.Extractor) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Roaster{},
		&catalogdomain.Product{},
		&catalogdomain.Variant{},
		&catalogdomain.ProductOption{},
		&catalogdomain.ProductImage{},
		&catalogdomain.AttributeRecord{},
	))

	fake := clock.NewFakeClock(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Catalog:   catalogrepo.Provide(),
		Extractor: extractor,
		Clock:     fake,
	})
	return svc, db, fake
}

func seedBareProduct(t *testing.T, db *gorm.DB, id int64, title string) {
	t.Helper()
	require.NoError(t, db.Create(&catalogdomain.Product{
		ID:        id,
		RoasterID: 1,
		Title:     title,
		BodyHTML:  "<p>" + title + "</p>",
		Tags:      "coffee, beans",
	}).Error)
}

func TestEnhanceAllSkipsProductsWithAttributes(t *testing.T) {
	extractor := &extractorStub{results: map[string]domain.Extraction{
		"Colombia Huila": {OriginCountry: "Colombia", SingleOrigin: catalogdomain.CoffeeTypeSingleOrigin},
	}}
	svc, db, fake := setupExtractionService(t, extractor)

	seedBareProduct(t, db, 10, "Ethiopia Guji")
	require.NoError(t, db.Create(&catalogdomain.AttributeRecord{
		ProductID:    10,
		SingleOrigin: catalogdomain.CoffeeTypeSingleOrigin,
		LastUpdated:  fake.Now(),
	}).Error)
	seedBareProduct(t, db, 11, "Colombia Huila")

	summary, err := svc.EnhanceAll(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Attempted)
	require.Equal(t, 1, summary.Extracted)
	require.Equal(t, 0, summary.Failed)
	require.Len(t, extractor.inputs, 1)
	require.Equal(t, "Colombia Huila", extractor.inputs[0].Title)
}

func TestEnhanceAllForceReprocessesEverything(t *testing.T) {
	extractor := &extractorStub{results: map[string]domain.Extraction{
		"Ethiopia Guji": {OriginCountry: "Ethiopia"},
	}}
	svc, db, fake := setupExtractionService(t, extractor)

	seedBareProduct(t, db, 10, "Ethiopia Guji")
	require.NoError(t, db.Create(&catalogdomain.AttributeRecord{
		ProductID:     10,
		SingleOrigin:  catalogdomain.CoffeeTypeSingleOrigin,
		OriginCountry: "Kenya",
		RoastLevel:    "Dark",
		LastUpdated:   fake.Now(),
	}).Error)

	summary, err := svc.EnhanceAll(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Extracted)

	// The record is replaced wholesale: stale fields do not survive a
	// re-extraction that no longer reports them.
	var record catalogdomain.AttributeRecord
	require.NoError(t, db.First(&record, "product_id = ?", 10).Error)
	require.Equal(t, "Ethiopia", record.OriginCountry)
	require.Equal(t, "", record.RoastLevel)
	require.Equal(t, catalogdomain.CoffeeTypeUnknown, record.SingleOrigin)

	var count int64
	require.NoError(t, db.Model(&catalogdomain.AttributeRecord{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestEnhanceAllCountsFailures(t *testing.T) {
	extractor := &extractorStub{
		results: map[string]domain.Extraction{
			"Colombia Huila": {OriginCountry: "Colombia"},
		},
		errs: map[string]error{
			"Ethiopia Guji": errors.New("upstream refused"),
		},
	}
	svc, db, _ := setupExtractionService(t, extractor)
	seedBareProduct(t, db, 10, "Ethiopia Guji")
	seedBareProduct(t, db, 11, "Colombia Huila")

	summary, err := svc.EnhanceAll(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Attempted)
	require.Equal(t, 1, summary.Extracted)
	require.Equal(t, 1, summary.Failed)

	var count int64
	require.NoError(t, db.Model(&catalogdomain.AttributeRecord{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestEnhanceProduct(t *testing.T) {
	resting := 10
	extractor := &extractorStub{results: map[string]domain.Extraction{
		"Ethiopia Guji": {
			SingleOrigin:      catalogdomain.CoffeeTypeSingleOrigin,
			OriginCountry:     "Ethiopia",
			Varietals:         []string{"74110", "74112"},
			TastingNotes:      catalogdomain.TastingNotes{Fruits: []string{"blueberry"}},
			Confidence:        0.9,
			RestingPeriodDays: &resting,
		},
	}}
	svc, db, fake := setupExtractionService(t, extractor)
	seedBareProduct(t, db, 10, "Ethiopia Guji")

	require.NoError(t, svc.EnhanceProduct(context.Background(), 10))

	var record catalogdomain.AttributeRecord
	require.NoError(t, db.First(&record, "product_id = ?", 10).Error)
	require.Equal(t, catalogdomain.CoffeeTypeSingleOrigin, record.SingleOrigin)
	require.Equal(t, "74110, 74112", record.Varietals)
	require.Equal(t, []string{"blueberry"}, record.TastingNotes.Data().Fruits)
	require.Equal(t, fake.Now(), record.LastUpdated.UTC())
	require.NotNil(t, record.RestingPeriodDays)
	require.Equal(t, 10, *record.RestingPeriodDays)

	require.Len(t, extractor.inputs, 1)
	require.Equal(t, []string{"coffee", "beans"}, extractor.inputs[0].Tags)
}

func TestEnhanceProductNotFound(t *testing.T) {
	svc, _, _ := setupExtractionService(t, &extractorStub{})

	err := svc.EnhanceProduct(context.Background(), 404)
	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestSplitTags(t *testing.T) {
	require.Nil(t, splitTags("  "))
	require.Equal(t, []string{"coffee", "single origin"}, splitTags("coffee, single origin, "))
}
