package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTrailingJSON(t *testing.T) {
	t.Run("bare json object", func(t *testing.T) {
		raw, err := ExtractTrailingJSON(`{"name": "Nutella"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "Nutella"}`, string(raw))
	})

	t.Run("json after prose", func(t *testing.T) {
		raw, err := ExtractTrailingJSON("Here is the product:\n{\"name\": \"Nutella\",\n\"brand\": \"Ferrero\"}")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "Nutella", "brand": "Ferrero"}`, string(raw))
	})

	t.Run("nested object spans to last brace", func(t *testing.T) {
		raw, err := ExtractTrailingJSON(`result {"a": {"b": 1}}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": {"b": 1}}`, string(raw))
	})

	t.Run("no json", func(t *testing.T) {
		_, err := ExtractTrailingJSON("sorry, I could not find anything")
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ExtractTrailingJSON(`{"name": }`)
		assert.Error(t, err)
	})
}

func TestMapProductJSON(t *testing.T) {
	t.Run("maps string values", func(t *testing.T) {
		mapped, err := MapProductJSON([]byte(`{
			"name": "Nutella 750g",
			"description": "Hazelnut spread",
			"brand": "Ferrero",
			"imageUrl": "https://example.com/n.jpg",
			"quantity": "750 g",
			"categories": "Spreads"
		}`))
		require.NoError(t, err)
		assert.Equal(t, "Nutella 750g", mapped.Name)
		assert.Equal(t, "Ferrero", mapped.Brand)
		assert.Equal(t, "https://example.com/n.jpg", mapped.ImageURL)
		assert.False(t, mapped.IsEmpty())
	})

	t.Run("null and non-string values become empty", func(t *testing.T) {
		mapped, err := MapProductJSON([]byte(`{"name": null, "quantity": 750, "categories": ["a"]}`))
		require.NoError(t, err)
		assert.Empty(t, mapped.Name)
		assert.Empty(t, mapped.Quantity)
		assert.Empty(t, mapped.Categories)
		assert.True(t, mapped.IsEmpty())
	})
}
