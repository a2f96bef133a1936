package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/infrastructure/config"
)

func testEnrichmentConfig(baseURL string) config.EnrichmentConfig {
	return config.EnrichmentConfig{
		OpenFoodFactsBaseURL: baseURL,
		OpenLibraryBaseURL:   baseURL,
		GoogleBooksBaseURL:   baseURL,
		ExaBaseURL:           baseURL,
		ExaAPIKey:            "test-key",
		HTTPTimeout:          5 * time.Second,
		UserAgent:            "pulzar-backend/test",
	}
}

func TestOpenFoodFactsLookup(t *testing.T) {
	t.Run("maps a found product", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v0/product/80177173.json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": 1,
				"product": {
					"product_name_es": "Nutella",
					"generic_name": "Hazelnut spread",
					"brands": "Ferrero",
					"image_front_url": "https://images.example/nutella.jpg",
					"quantity": "750 g",
					"categories": "Spreads,Sweet spreads"
				}
			}`))
		}))
		defer server.Close()

		client := NewOpenFoodFactsClient(testEnrichmentConfig(server.URL), zap.NewNop())
		product, err := client.Lookup(context.Background(), "80177173")
		require.NoError(t, err)

		assert.Equal(t, "openfoodfacts", product.Source)
		assert.Equal(t, "Nutella", product.Mapped.Name)
		assert.Equal(t, "Hazelnut spread", product.Mapped.Description)
		assert.Equal(t, "Ferrero", product.Mapped.Brand)
		assert.Equal(t, "https://images.example/nutella.jpg", product.Mapped.ImageURL)
		assert.Equal(t, "750 g", product.Mapped.Quantity)
		assert.NotEmpty(t, product.Raw)
	})

	t.Run("brands doubles as description when generic name missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status": 1, "product": {"product_name": "Thing", "brands": "Acme"}}`))
		}))
		defer server.Close()

		client := NewOpenFoodFactsClient(testEnrichmentConfig(server.URL), zap.NewNop())
		product, err := client.Lookup(context.Background(), "123")
		require.NoError(t, err)
		assert.Equal(t, "Acme", product.Mapped.Description)
	})

	t.Run("status 0 means no match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
		}))
		defer server.Close()

		client := NewOpenFoodFactsClient(testEnrichmentConfig(server.URL), zap.NewNop())
		_, err := client.Lookup(context.Background(), "000")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewOpenFoodFactsClient(testEnrichmentConfig(server.URL), zap.NewNop())
		_, err := client.Lookup(context.Background(), "123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoMatch)
	})
}

func TestOpenLibraryLookup(t *testing.T) {
	t.Run("maps a found book", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/isbn/9783161484100.json", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"title": "Example Book",
				"description": {"type": "/type/text", "value": "A long description"},
				"publishers": ["Mohr Siebeck"],
				"subjects": ["Law", "History"]
			}`))
		}))
		defer server.Close()

		client := NewOpenLibraryClient(testEnrichmentConfig(server.URL), zap.NewNop())
		product, err := client.Lookup(context.Background(), "9783161484100")
		require.NoError(t, err)

		assert.Equal(t, "openlibrary", product.Source)
		assert.Equal(t, "Example Book", product.Mapped.Name)
		assert.Equal(t, "A long description", product.Mapped.Description)
		assert.Equal(t, "Mohr Siebeck", product.Mapped.Brand)
		assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9783161484100-L.jpg", product.Mapped.ImageURL)
		assert.Equal(t, "Law, History", product.Mapped.Categories)
	})

	t.Run("string description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"title": "T", "description": "plain"}`))
		}))
		defer server.Close()

		client := NewOpenLibraryClient(testEnrichmentConfig(server.URL), zap.NewNop())
		product, err := client.Lookup(context.Background(), "9780000000002")
		require.NoError(t, err)
		assert.Equal(t, "plain", product.Mapped.Description)
	})

	t.Run("404 means no match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewOpenLibraryClient(testEnrichmentConfig(server.URL), zap.NewNop())
		_, err := client.Lookup(context.Background(), "9780000000002")
		assert.ErrorIs(t, err, ErrNoMatch)
	})
}

func TestGoogleBooksLookup(t *testing.T) {
	t.Run("maps the first volume", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/books/v1/volumes", r.URL.Path)
			assert.Equal(t, "isbn:9783161484100", r.URL.Query().Get("q"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"items": [{
					"volumeInfo": {
						"title": "Example Book",
						"authors": ["Jane Doe", "John Roe"],
						"categories": ["Fiction"],
						"imageLinks": {"thumbnail": "https://books.example/t.jpg"}
					}
				}]
			}`))
		}))
		defer server.Close()

		client := NewGoogleBooksClient(testEnrichmentConfig(server.URL), zap.NewNop())
		product, err := client.Lookup(context.Background(), "9783161484100")
		require.NoError(t, err)

		assert.Equal(t, "googlebooks", product.Source)
		assert.Equal(t, "Example Book", product.Mapped.Name)
		// Authors stand in for both description and brand when there is no blurb
		assert.Equal(t, "Jane Doe, John Roe", product.Mapped.Description)
		assert.Equal(t, "Jane Doe, John Roe", product.Mapped.Brand)
		assert.Equal(t, "https://books.example/t.jpg", product.Mapped.ImageURL)
		assert.Equal(t, "Fiction", product.Mapped.Categories)
	})

	t.Run("empty result set means no match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"totalItems": 0}`))
		}))
		defer server.Close()

		client := NewGoogleBooksClient(testEnrichmentConfig(server.URL), zap.NewNop())
		_, err := client.Lookup(context.Background(), "9783161484100")
		assert.ErrorIs(t, err, ErrNoMatch)
	})
}

func TestExaSearch(t *testing.T) {
	t.Run("sends key and clamps result count", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"results": [{"title": "A", "url": "https://a.example", "id": "1"}]}`))
		}))
		defer server.Close()

		client := NewExaClient(testEnrichmentConfig(server.URL), zap.NewNop())
		require.True(t, client.Enabled())

		results, err := client.Search(context.Background(), "barcode 80177173", 20)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "A", results[0].Title)
	})

	t.Run("disabled without api key", func(t *testing.T) {
		cfg := testEnrichmentConfig("http://unused.example")
		cfg.ExaAPIKey = ""
		client := NewExaClient(cfg, zap.NewNop())
		assert.False(t, client.Enabled())

		_, err := client.Search(context.Background(), "q", 5)
		assert.ErrorIs(t, err, ErrExaNotConfigured)
	})
}
