package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	catalogrepo "github.com/beanbook/beanbook/internal/catalog/repository"
	"github.com/beanbook/beanbook/internal/config"
	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	ordersrepo "github.com/beanbook/beanbook/internal/orders/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOffersService(t *testing.T) (offersdomain.Service, *gorm.DB) {
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
		&ordersdomain.OrderRecord{},
	))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Catalog: catalogrepo.Provide(),
		Orders:  ordersrepo.Provide(),
		Prefs:   testPreferences(),
	})
	return svc, db
}

func testPreferences() config.Preferences {
	return config.Preferences{
		MonthlyBudget:     40.0,
		BudgetFlexibility: 0.15,
		Catalog: config.CatalogFilter{
			GrindOptionMatch: "bean",
			MinGrams:         200,
			MaxGrams:         250,
			TitleExclusions:  []string{"espresso", "subscription", "decaf"},
			VendorExclusions: []string{"AAZ B2B"},
		},
	}
}

func seedRoaster(t *testing.T, db *gorm.DB, id int64, name, displayName string) {
	t.Helper()
	require.NoError(t, db.Create(&catalogdomain.Roaster{
		ID:          id,
		Name:        name,
		DisplayName: displayName,
		URL:         "https://" + name + ".example.com",
	}).Error)
}

func seedProduct(t *testing.T, db *gorm.DB, product catalogdomain.Product) {
	t.Helper()
	for i := range product.Variants {
		product.Variants[i].ProductID = product.ID
		if product.Variants[i].ParentTitle == "" {
			product.Variants[i].ParentTitle = product.Title
		}
		if product.Variants[i].Vendor == "" {
			product.Variants[i].Vendor = product.Vendor
		}
	}
	require.NoError(t, db.Create(&product).Error)
}

func wholeBeanVariant(id int64, grams int, price float64) catalogdomain.Variant {
	return catalogdomain.Variant{
		ID:        id,
		Title:     fmt.Sprintf("%dg / Whole Bean", grams),
		Available: true,
		Price:     price,
		Grams:     grams,
		Option1:   fmt.Sprintf("%dg", grams),
		Option2:   "Whole Bean",
	}
}

func TestCanonicalOffersPicksSmallestEligibleVariant(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedProduct(t, db, catalogdomain.Product{
		ID:        10,
		RoasterID: 1,
		Title:     "Ethiopia Guji",
		Vendor:    "Roast Co",
		URL:       "https://roastco.example.com/products/ethiopia-guji",
		Variants: []catalogdomain.Variant{
			wholeBeanVariant(101, 250, 18.50),
			wholeBeanVariant(102, 200, 15.00),
			wholeBeanVariant(103, 1000, 52.00),
		},
	})

	offers, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, int64(10), offers[0].Identity.ProductID)
	require.Equal(t, int64(102), offers[0].Identity.VariantID)
	require.Equal(t, 200, offers[0].Grams)
	require.Equal(t, 15.00, offers[0].Price)
	require.Equal(t, "https://roastco.example.com/products/ethiopia-guji", offers[0].URL)
}

func TestCanonicalOffersTieBreaksOnLowerVariantID(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedProduct(t, db, catalogdomain.Product{
		ID:        10,
		RoasterID: 1,
		Title:     "Colombia Huila",
		Vendor:    "Roast Co",
		Variants: []catalogdomain.Variant{
			wholeBeanVariant(202, 250, 17.00),
			wholeBeanVariant(201, 250, 16.00),
		},
	})

	offers, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, int64(201), offers[0].Identity.VariantID)
}

func TestCanonicalOffersEligibility(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")

	ground := wholeBeanVariant(301, 250, 16.00)
	ground.Option2 = "Filter Grind"
	unavailable := wholeBeanVariant(302, 250, 16.00)
	unavailable.Available = false
	tooSmall := wholeBeanVariant(303, 100, 9.00)
	tooBig := wholeBeanVariant(304, 500, 30.00)

	seedProduct(t, db, catalogdomain.Product{
		ID: 30, RoasterID: 1, Title: "Kenya Nyeri", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{ground, unavailable, tooSmall, tooBig},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 31, RoasterID: 1, Title: "House Espresso", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(311, 250, 14.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 32, RoasterID: 1, Title: "Monthly Subscription", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(321, 250, 14.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 33, RoasterID: 1, Title: "Brazil Cerrado", Vendor: "AAZ B2B",
		Variants: []catalogdomain.Variant{wholeBeanVariant(331, 250, 14.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 34, RoasterID: 1, Title: "Honduras Marcala", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(341, 200, 13.00)},
	})

	offers, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "Honduras Marcala", offers[0].ParentTitle)
}

func TestCanonicalOffersTitleExclusionIsCaseInsensitive(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedProduct(t, db, catalogdomain.Product{
		ID: 40, RoasterID: 1, Title: "SWISS WATER DECAF Colombia", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(401, 250, 15.00)},
	})

	offers, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	require.Empty(t, offers)
}

func TestCanonicalOffersIdempotent(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedProduct(t, db, catalogdomain.Product{
		ID: 50, RoasterID: 1, Title: "Ethiopia Guji", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{
			wholeBeanVariant(501, 200, 15.00),
			wholeBeanVariant(502, 250, 18.00),
		},
	})

	first, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	second, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	require.Equal(t, first[0].Identity, second[0].Identity)
}

func TestCanonicalOffersGroupsByExactTitleAndVendor(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedRoaster(t, db, 2, "beanhaus", "Beanhaus")

	seedProduct(t, db, catalogdomain.Product{
		ID: 60, RoasterID: 1, Title: "Kenya Kirinyaga", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(601, 250, 19.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 61, RoasterID: 2, Title: "Kenya Kirinyaga", Vendor: "Beanhaus",
		Variants: []catalogdomain.Variant{wholeBeanVariant(611, 250, 20.00)},
	})

	offers, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 2)
}

func TestUnorderedOffersExcludesPurchasedProducts(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedProduct(t, db, catalogdomain.Product{
		ID: 70, RoasterID: 1, Title: "Ethiopia Guji", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(701, 200, 15.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 71, RoasterID: 1, Title: "Colombia Huila", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(711, 200, 14.00)},
	})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	purchased := int64(70)
	variant := int64(701)
	require.NoError(t, db.Create(&ordersdomain.OrderRecord{
		ID:        node.Generate(),
		ProductID: &purchased,
		VariantID: &variant,
		Quantity:  1,
		PricePaid: 15.00,
		OrderDate: time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	}).Error)

	offers, err := svc.UnorderedOffers(context.Background(), offersdomain.TypeFilterAny)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "Colombia Huila", offers[0].ParentTitle)
}

func TestUnorderedOffersFiltersByClassification(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedProduct(t, db, catalogdomain.Product{
		ID: 80, RoasterID: 1, Title: "Ethiopia Guji", Vendor: "Roast Co",
		Variants:   []catalogdomain.Variant{wholeBeanVariant(801, 200, 15.00)},
		Attributes: &catalogdomain.AttributeRecord{ProductID: 80, SingleOrigin: catalogdomain.CoffeeTypeSingleOrigin, LastUpdated: time.Now().UTC()},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 81, RoasterID: 1, Title: "Morning Blend", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(811, 200, 13.00)},
	})

	singles, err := svc.UnorderedOffers(context.Background(), catalogdomain.CoffeeTypeSingleOrigin)
	require.NoError(t, err)
	require.Len(t, singles, 1)
	require.Equal(t, "Ethiopia Guji", singles[0].ParentTitle)

	blends, err := svc.UnorderedOffers(context.Background(), catalogdomain.CoffeeTypeBlend)
	require.NoError(t, err)
	require.Len(t, blends, 1)
	require.Equal(t, "Morning Blend", blends[0].ParentTitle)
}

func TestUnorderedOffersOrdering(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	seedRoaster(t, db, 2, "beanhaus", "Beanhaus")

	seedProduct(t, db, catalogdomain.Product{
		ID: 90, RoasterID: 1, Title: "Kenya Nyeri", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(901, 200, 15.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 91, RoasterID: 1, Title: "Colombia Huila", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(911, 200, 15.00)},
	})
	seedProduct(t, db, catalogdomain.Product{
		ID: 92, RoasterID: 2, Title: "Rwanda Nyamasheke", Vendor: "Beanhaus",
		Variants: []catalogdomain.Variant{wholeBeanVariant(921, 200, 15.00)},
	})

	offers, err := svc.UnorderedOffers(context.Background(), offersdomain.TypeFilterAny)
	require.NoError(t, err)
	require.Len(t, offers, 3)
	require.Equal(t, "Rwanda Nyamasheke", offers[0].ParentTitle)
	require.Equal(t, "Colombia Huila", offers[1].ParentTitle)
	require.Equal(t, "Kenya Nyeri", offers[2].ParentTitle)
}

func TestCanonicalOffersCarriesAttributes(t *testing.T) {
	svc, db := setupOffersService(t)
	seedRoaster(t, db, 1, "roastco", "Roast Co")
	resting := 14
	seedProduct(t, db, catalogdomain.Product{
		ID: 95, RoasterID: 1, Title: "Ethiopia Guji", Vendor: "Roast Co",
		Variants: []catalogdomain.Variant{wholeBeanVariant(951, 200, 15.00)},
		Attributes: &catalogdomain.AttributeRecord{
			ProductID:         95,
			SingleOrigin:      catalogdomain.CoffeeTypeSingleOrigin,
			OriginCountry:     "Ethiopia",
			OriginRegion:      "Guji",
			ProcessMethod:     "Washed",
			RoastLevel:        "Light",
			RestingPeriodDays: &resting,
			LastUpdated:       time.Now().UTC(),
		},
	})

	offers, err := svc.CanonicalOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "Ethiopia", offers[0].OriginCountry)
	require.Equal(t, "Guji", offers[0].OriginRegion)
	require.Equal(t, "Washed", offers[0].ProcessMethod)
	require.Equal(t, catalogdomain.CoffeeTypeSingleOrigin, offers[0].Classification)
	require.NotNil(t, offers[0].RestingPeriodDays)
	require.Equal(t, 14, *offers[0].RestingPeriodDays)
	require.Equal(t, "Roast Co", offers[0].RoasterDisplayName)
}
