package enrichment

import (
	"context"
	"errors"

	"github.com/pulzar/backend/internal/domain/catalog"
)

// ErrNoMatch is returned when a provider has no data for the code
var ErrNoMatch = errors.New("no product match")

// Provider looks up external product data for a scanned code
type Provider interface {
	// Name identifies the provider in lookup results
	Name() string

	// Lookup fetches product data for the code. Returns ErrNoMatch when the
	// provider has nothing for it.
	Lookup(ctx context.Context, code string) (*catalog.ExternalProduct, error)
}

// LookupCache caches lookup results by scanned code. Get returns (nil, nil)
// on a miss.
type LookupCache interface {
	Get(ctx context.Context, code string) (*catalog.ExternalProduct, error)
	Set(ctx context.Context, code string, product *catalog.ExternalProduct) error
}
