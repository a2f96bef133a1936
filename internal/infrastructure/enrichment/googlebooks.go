package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/config"
)

// GoogleBooksClient looks up books by ISBN via the Google Books volumes API,
// used as a fallback when OpenLibrary has no record
type GoogleBooksClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewGoogleBooksClient creates a new Google Books provider
func NewGoogleBooksClient(cfg config.EnrichmentConfig, logger *zap.Logger) *GoogleBooksClient {
	httpClient := resty.New().
		SetBaseURL(cfg.GoogleBooksBaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.HTTPTimeout)

	return &GoogleBooksClient{
		http:   httpClient,
		logger: logger.Named("googlebooks"),
	}
}

// Name implements Provider
func (c *GoogleBooksClient) Name() string {
	return "googlebooks"
}

type googleBooksResponse struct {
	Items []json.RawMessage `json:"items"`
}

type googleBooksVolume struct {
	VolumeInfo struct {
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		Categories []string `json:"categories"`
		Desc       string   `json:"description"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
			Small     string `json:"small"`
			Medium    string `json:"medium"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// Lookup implements Provider
func (c *GoogleBooksClient) Lookup(ctx context.Context, isbn string) (*catalog.ExternalProduct, error) {
	var result googleBooksResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", "isbn:"+isbn).
		SetResult(&result).
		Get("/books/v1/volumes")
	if err != nil {
		return nil, fmt.Errorf("googlebooks request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("googlebooks api error: %s", resp.Status())
	}
	if len(result.Items) == 0 {
		return nil, ErrNoMatch
	}

	raw := result.Items[0]
	var volume googleBooksVolume
	if err := json.Unmarshal(raw, &volume); err != nil {
		return nil, fmt.Errorf("googlebooks decode: %w", err)
	}

	info := volume.VolumeInfo
	authors := strings.Join(info.Authors, ", ")
	return &catalog.ExternalProduct{
		Source: c.Name(),
		Raw:    raw,
		Mapped: catalog.MappedProduct{
			Name:        info.Title,
			Description: firstNonEmpty(info.Desc, authors),
			Brand:       authors,
			ImageURL:    firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.Small, info.ImageLinks.Medium),
			Categories:  strings.Join(info.Categories, ", "),
		},
	}, nil
}

var _ Provider = (*GoogleBooksClient)(nil)
