package enrichment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
)

// Chain routes a code to the right providers and falls back through them in
// order: books providers for ISBNs, the food provider otherwise, then the
// AI providers. Provider failures are logged and skipped; a chain lookup
// only errors on context cancellation.
type Chain struct {
	books     []Provider
	food      []Provider
	fallbacks []Provider
	cache     LookupCache
	logger    *zap.Logger
}

// ChainOption configures a Chain
type ChainOption func(*Chain)

// WithBooks sets the providers consulted for ISBN-13 codes
func WithBooks(providers ...Provider) ChainOption {
	return func(c *Chain) { c.books = providers }
}

// WithFood sets the providers consulted for non-ISBN codes
func WithFood(providers ...Provider) ChainOption {
	return func(c *Chain) { c.food = providers }
}

// WithFallbacks sets the providers consulted when the primary ones found
// nothing, in order
func WithFallbacks(providers ...Provider) ChainOption {
	return func(c *Chain) { c.fallbacks = providers }
}

// WithCache adds a best-effort cache in front of the providers
func WithCache(cache LookupCache) ChainOption {
	return func(c *Chain) { c.cache = cache }
}

// NewChain creates a provider chain
func NewChain(logger *zap.Logger, opts ...ChainOption) *Chain {
	chain := &Chain{logger: logger.Named("enrichment")}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// Lookup resolves external product data for a code. Returns (nil, nil) when
// no provider had a match.
func (c *Chain) Lookup(ctx context.Context, code string) (*catalog.ExternalProduct, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, code)
		if err != nil {
			c.logger.Warn("lookup cache read failed", zap.String("code", code), zap.Error(err))
		} else if cached != nil {
			c.logger.Debug("lookup cache hit", zap.String("code", code), zap.String("provider", cached.Source))
			return cached, nil
		}
	}

	primary := c.food
	if catalog.IsISBN13(code) {
		primary = c.books
	}

	product, err := c.tryProviders(ctx, code, primary)
	if err != nil {
		return nil, err
	}
	if product == nil {
		product, err = c.tryProviders(ctx, code, c.fallbacks)
		if err != nil {
			return nil, err
		}
	}

	if product != nil && c.cache != nil {
		if err := c.cache.Set(ctx, code, product); err != nil {
			c.logger.Warn("lookup cache write failed", zap.String("code", code), zap.Error(err))
		}
	}

	return product, nil
}

func (c *Chain) tryProviders(ctx context.Context, code string, providers []Provider) (*catalog.ExternalProduct, error) {
	for _, provider := range providers {
		product, err := provider.Lookup(ctx, code)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, ErrNoMatch) {
				c.logger.Warn("provider lookup failed",
					zap.String("provider", provider.Name()),
					zap.String("code", code),
					zap.Error(err))
			}
			continue
		}
		if product != nil {
			c.logger.Info("provider lookup succeeded",
				zap.String("provider", provider.Name()),
				zap.String("code", code))
			return product, nil
		}
	}
	return nil, nil
}
