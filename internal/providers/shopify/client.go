package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beanbook/beanbook/internal/catalog/domain"
	"go.uber.org/zap"
)

const pageSize = 250

// Client ingests listings from a Shopify storefront's public
// /products.json endpoint.
type Client struct {
	httpClient *http.Client
	log        *zap.Logger
}

func New(log *zap.Logger) domain.Source {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.Named("shopify.client"),
	}
}

type listingPage struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	BodyHTML    string           `json:"body_html"`
	PublishedAt time.Time        `json:"published_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        []string         `json:"tags"`
	Variants    []shopifyVariant `json:"variants"`
	Options     []shopifyOption  `json:"options"`
	Images      []shopifyImage   `json:"images"`
}

type shopifyVariant struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Option1        string  `json:"option1"`
	Option2        string  `json:"option2"`
	Option3        string  `json:"option3"`
	SKU            string  `json:"sku"`
	Available      bool    `json:"available"`
	Price          string  `json:"price"`
	CompareAtPrice *string `json:"compare_at_price"`
	Grams          int     `json:"grams"`
	Position       int     `json:"position"`
}

type shopifyOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type shopifyImage struct {
	Src      string `json:"src"`
	Position int    `json:"position"`
}

// FetchListing pages through /products.json until the store returns an
// empty page, returning the complete replacement set.
func (c *Client) FetchListing(ctx context.Context, storeURL string) ([]domain.Product, error) {
	base := strings.TrimRight(storeURL, "/")
	var products []domain.Product

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, pageSize, page)
		batch, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, sp := range batch {
			products = append(products, mapProduct(base, sp))
		}
		if len(batch) < pageSize {
			break
		}
	}

	c.log.Debug("listing fetched", zap.String("store", base), zap.Int("products", len(products)))
	return products, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) ([]shopifyProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	var page listingPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return page.Products, nil
}

func mapProduct(base string, sp shopifyProduct) domain.Product {
	p := domain.Product{
		ID:          sp.ID,
		Title:       sp.Title,
		Handle:      sp.Handle,
		BodyHTML:    sp.BodyHTML,
		Tags:        strings.Join(sp.Tags, ","),
		ProductType: sp.ProductType,
		Vendor:      sp.Vendor,
		URL:         base + "/products/" + sp.Handle,
		PublishedAt: sp.PublishedAt,
		CreatedAt:   sp.CreatedAt,
		UpdatedAt:   sp.UpdatedAt,
	}

	for _, sv := range sp.Variants {
		v := domain.Variant{
			ID:        sv.ID,
			ProductID: sp.ID,
			Title:     sv.Title,
			Available: sv.Available,
			Price:     parsePrice(sv.Price),
			Grams:     sv.Grams,
			Option1:   sv.Option1,
			Option2:   sv.Option2,
			Option3:   sv.Option3,
			SKU:       sv.SKU,
			Position:  sv.Position,
		}
		if sv.CompareAtPrice != nil {
			cap := parsePrice(*sv.CompareAtPrice)
			v.CompareAtPrice = &cap
		}
		p.Variants = append(p.Variants, v)
	}

	for _, so := range sp.Options {
		p.Options = append(p.Options, domain.ProductOption{
			ProductID: sp.ID,
			Name:      so.Name,
			Values:    strings.Join(so.Values, ","),
		})
	}

	for _, si := range sp.Images {
		p.Images = append(p.Images, domain.ProductImage{
			ProductID: sp.ID,
			URL:       si.Src,
			Position:  si.Position,
		})
	}

	return p
}

func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return price
}
