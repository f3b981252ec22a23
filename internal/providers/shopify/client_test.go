package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchListingPagesUntilEmpty(t *testing.T) {
	var pagesServed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		require.Equal(t, "250", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		if page != "1" {
			fmt.Fprint(w, `{"products":[]}`)
			return
		}
		fmt.Fprint(w, `{
			"products": [
				{
					"id": 10,
					"title": "Ethiopia Guji",
					"handle": "ethiopia-guji",
					"body_html": "<p>Floral and sweet.</p>",
					"vendor": "Roast Co",
					"tags": ["coffee", "single origin"],
					"variants": [
						{"id": 101, "title": "200g / Whole Bean", "option1": "200g", "option2": "Whole Bean", "available": true, "price": "15.00", "grams": 200, "position": 1},
						{"id": 102, "title": "1kg / Whole Bean", "option1": "1kg", "option2": "Whole Bean", "available": false, "price": "52.50", "compare_at_price": "60.00", "grams": 1000, "position": 2}
					],
					"options": [{"name": "Size", "values": ["200g", "1kg"]}],
					"images": [{"src": "https://cdn.example.com/guji.jpg", "position": 1}]
				}
			]
		}`)
	}))
	defer server.Close()

	client := New(zap.NewNop())
	products, err := client.FetchListing(context.Background(), server.URL+"/")
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	require.Equal(t, int64(10), p.ID)
	require.Equal(t, "Ethiopia Guji", p.Title)
	require.Equal(t, "coffee,single origin", p.Tags)
	require.Equal(t, server.URL+"/products/ethiopia-guji", p.URL)

	require.Len(t, p.Variants, 2)
	require.Equal(t, 15.00, p.Variants[0].Price)
	require.Equal(t, int64(10), p.Variants[0].ProductID)
	require.NotNil(t, p.Variants[1].CompareAtPrice)
	require.Equal(t, 60.00, *p.Variants[1].CompareAtPrice)
	require.False(t, p.Variants[1].Available)

	require.Len(t, p.Options, 1)
	require.Equal(t, "200g,1kg", p.Options[0].Values)
	require.Len(t, p.Images, 1)

	// A short page ends pagination without requesting the next one.
	require.Equal(t, []string{"1"}, pagesServed)
}

func TestFetchListingUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(zap.NewNop())
	_, err := client.FetchListing(context.Background(), server.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 429")
}

func TestParsePrice(t *testing.T) {
	require.Equal(t, 15.5, parsePrice("15.50"))
	require.Equal(t, 15.5, parsePrice(" 15.50 "))
	require.Equal(t, 0.0, parsePrice("free"))
	require.Equal(t, 0.0, parsePrice(""))
}
