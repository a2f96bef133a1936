package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulzar/backend/internal/domain/catalog"
)

func TestInMemoryLookupCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		c := NewInMemoryLookupCache(time.Hour)

		miss, err := c.Get(ctx, "80177173")
		require.NoError(t, err)
		assert.Nil(t, miss)

		product := &catalog.ExternalProduct{
			Source: "openfoodfacts",
			Mapped: catalog.MappedProduct{Name: "Nutella"},
		}
		require.NoError(t, c.Set(ctx, "80177173", product))

		hit, err := c.Get(ctx, "80177173")
		require.NoError(t, err)
		require.NotNil(t, hit)
		assert.Equal(t, "Nutella", hit.Mapped.Name)
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewInMemoryLookupCache(time.Minute)
		current := time.Now()
		c.now = func() time.Time { return current }

		require.NoError(t, c.Set(ctx, "123", &catalog.ExternalProduct{Source: "ai"}))

		current = current.Add(2 * time.Minute)
		hit, err := c.Get(ctx, "123")
		require.NoError(t, err)
		assert.Nil(t, hit)
	})

	t.Run("nil product is ignored", func(t *testing.T) {
		c := NewInMemoryLookupCache(time.Hour)
		require.NoError(t, c.Set(ctx, "123", nil))

		hit, err := c.Get(ctx, "123")
		require.NoError(t, err)
		assert.Nil(t, hit)
	})
}
