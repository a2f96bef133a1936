package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/config"
)

// OpenLibraryClient looks up books by ISBN-13 against the public OpenLibrary
// API. Cover images come from the covers service keyed by ISBN.
type OpenLibraryClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewOpenLibraryClient creates a new OpenLibrary provider
func NewOpenLibraryClient(cfg config.EnrichmentConfig, logger *zap.Logger) *OpenLibraryClient {
	httpClient := resty.New().
		SetBaseURL(cfg.OpenLibraryBaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.HTTPTimeout)

	return &OpenLibraryClient{
		http:   httpClient,
		logger: logger.Named("openlibrary"),
	}
}

// Name implements Provider
func (c *OpenLibraryClient) Name() string {
	return "openlibrary"
}

type openLibraryBook struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Publishers  []string        `json:"publishers"`
	Subjects    []string        `json:"subjects"`
}

// The description field is either a plain string or {"type": ..., "value": ...}
func (b *openLibraryBook) description() string {
	if len(b.Description) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Description, &s); err == nil {
		return s
	}
	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b.Description, &wrapped); err == nil {
		return wrapped.Value
	}
	return ""
}

// Lookup implements Provider
func (c *OpenLibraryClient) Lookup(ctx context.Context, isbn string) (*catalog.ExternalProduct, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/isbn/%s.json", url.PathEscape(isbn)))
	if err != nil {
		return nil, fmt.Errorf("openlibrary request: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrNoMatch
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openlibrary api error: %s", resp.Status())
	}

	raw := resp.Body()
	var book openLibraryBook
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, fmt.Errorf("openlibrary decode: %w", err)
	}

	publishers := strings.Join(book.Publishers, ", ")
	return &catalog.ExternalProduct{
		Source: c.Name(),
		Raw:    json.RawMessage(raw),
		Mapped: catalog.MappedProduct{
			Name:        book.Title,
			Description: firstNonEmpty(book.description(), publishers),
			Brand:       publishers,
			ImageURL:    fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", url.PathEscape(isbn)),
			Categories:  strings.Join(book.Subjects, ", "),
		},
	}, nil
}

var _ Provider = (*OpenLibraryClient)(nil)
