package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/config"
)

// OpenFoodFactsClient looks up food products by barcode against the public
// OpenFoodFacts API (no key needed)
type OpenFoodFactsClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewOpenFoodFactsClient creates a new OpenFoodFacts provider
func NewOpenFoodFactsClient(cfg config.EnrichmentConfig, logger *zap.Logger) *OpenFoodFactsClient {
	httpClient := resty.New().
		SetBaseURL(cfg.OpenFoodFactsBaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(1).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
		})

	return &OpenFoodFactsClient{
		http:   httpClient,
		logger: logger.Named("openfoodfacts"),
	}
}

// Name implements Provider
func (c *OpenFoodFactsClient) Name() string {
	return "openfoodfacts"
}

type offResponse struct {
	Status  int             `json:"status"`
	Product json.RawMessage `json:"product"`
}

type offProduct struct {
	ProductName   string `json:"product_name"`
	ProductNameES string `json:"product_name_es"`
	ProductNameEN string `json:"product_name_en"`
	GenericName   string `json:"generic_name"`
	GenericNameES string `json:"generic_name_es"`
	GenericNameEN string `json:"generic_name_en"`
	Brands        string `json:"brands"`
	ImageURL      string `json:"image_url"`
	ImageFrontURL string `json:"image_front_url"`
	Quantity      string `json:"quantity"`
	Categories    string `json:"categories"`
}

// Lookup implements Provider
func (c *OpenFoodFactsClient) Lookup(ctx context.Context, code string) (*catalog.ExternalProduct, error) {
	var result offResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/api/v0/product/%s.json", url.PathEscape(code)))
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openfoodfacts api error: %s", resp.Status())
	}
	if result.Status != 1 || len(result.Product) == 0 {
		return nil, ErrNoMatch
	}

	var product offProduct
	if err := json.Unmarshal(result.Product, &product); err != nil {
		return nil, fmt.Errorf("openfoodfacts decode: %w", err)
	}

	return &catalog.ExternalProduct{
		Source: c.Name(),
		Raw:    result.Product,
		Mapped: catalog.MappedProduct{
			Name:        firstNonEmpty(product.ProductName, product.ProductNameES, product.ProductNameEN),
			Description: firstNonEmpty(product.GenericName, product.GenericNameES, product.GenericNameEN, product.Brands),
			Brand:       product.Brands,
			ImageURL:    firstNonEmpty(product.ImageURL, product.ImageFrontURL),
			Quantity:    product.Quantity,
			Categories:  product.Categories,
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ Provider = (*OpenFoodFactsClient)(nil)
