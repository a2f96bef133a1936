package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/infrastructure/config"
)

// ErrExaNotConfigured is returned when no Exa API key is configured
var ErrExaNotConfigured = errors.New("exa is not configured")

// ExaClient performs web searches against the Exa API. It backs the search
// tool the AI lookup uses.
type ExaClient struct {
	http    *resty.Client
	enabled bool
	logger  *zap.Logger
}

// ExaResult is one web search hit
type ExaResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	ID    string `json:"id"`
}

// NewExaClient creates a new Exa search client. Without an API key the
// client stays disabled.
func NewExaClient(cfg config.EnrichmentConfig, logger *zap.Logger) *ExaClient {
	apiKey := strings.TrimSpace(cfg.ExaAPIKey)

	httpClient := resty.New().
		SetBaseURL(cfg.ExaBaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.HTTPTimeout)
	if apiKey != "" {
		httpClient.SetHeader("x-api-key", apiKey)
	}

	return &ExaClient{
		http:    httpClient,
		enabled: apiKey != "",
		logger:  logger.Named("exa"),
	}
}

// Enabled reports whether the client has an API key
func (c *ExaClient) Enabled() bool {
	return c != nil && c.enabled
}

type exaSearchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
	Type       string `json:"type,omitempty"`
}

type exaSearchResponse struct {
	Results []ExaResult `json:"results"`
}

// Search performs a keyword web search, capping numResults to 1..8
func (c *ExaClient) Search(ctx context.Context, query string, numResults int) ([]ExaResult, error) {
	if !c.Enabled() {
		return nil, ErrExaNotConfigured
	}
	if numResults < 1 {
		numResults = 5
	}
	if numResults > 8 {
		numResults = 8
	}

	var result exaSearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(exaSearchRequest{Query: query, NumResults: numResults, Type: "keyword"}).
		SetResult(&result).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("exa request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("exa api error: %s", resp.Status())
	}

	return result.Results, nil
}
