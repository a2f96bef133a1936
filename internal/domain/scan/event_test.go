package scan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulzar/backend/internal/domain/catalog"
)

func TestNewEvent(t *testing.T) {
	orgID := uuid.New()
	event, err := NewEvent(orgID, "77988690", "user-1")
	require.NoError(t, err)

	assert.Equal(t, EventTypeScannerRead, event.Type)
	assert.Equal(t, orgID, event.OrgID)

	content, err := event.DecodeContent()
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, content.Status)
	assert.Equal(t, "77988690", content.Payload.Raw)
	assert.Equal(t, "user-1", content.UserID)
	assert.Nil(t, content.Analysis)
}

func TestMergeContentPreservesExistingSections(t *testing.T) {
	event, err := NewEvent(uuid.New(), "4006381333931", "")
	require.NoError(t, err)

	// First merge: status transition plus identifier analysis
	err = event.MergeContent(func(c *Content) {
		c.Status = StatusProcessing
		c.EnsureAnalysis().Identifier = &IdentifierAnalysis{
			Value: "4006381333931", Type: "GTIN13", Symbology: "EAN13", Valid: true,
		}
	})
	require.NoError(t, err)

	// Second merge touches an unrelated analysis section
	identifierID := uuid.New()
	itemID := uuid.New()
	err = event.MergeContent(func(c *Content) {
		c.EnsureAnalysis().Resolved = &ResolvedAnalysis{IdentifierID: identifierID, ItemID: &itemID}
	})
	require.NoError(t, err)

	content, err := event.DecodeContent()
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, content.Status)
	assert.Equal(t, "4006381333931", content.Payload.Raw)
	require.NotNil(t, content.Analysis.Identifier)
	assert.Equal(t, "GTIN13", content.Analysis.Identifier.Type)
	require.NotNil(t, content.Analysis.Resolved)
	assert.Equal(t, identifierID, content.Analysis.Resolved.IdentifierID)
}

func TestMergeContentProductLookup(t *testing.T) {
	event, err := NewEvent(uuid.New(), "77988690", "")
	require.NoError(t, err)

	err = event.MergeContent(func(c *Content) {
		c.Status = StatusDone
		c.EnsureAnalysis().ProductLookup = &ProductLookupAnalysis{
			OK:       true,
			Provider: "openfoodfacts",
			Mapped:   &catalog.MappedProduct{Name: "Nutella"},
		}
	})
	require.NoError(t, err)

	content, err := event.DecodeContent()
	require.NoError(t, err)
	assert.Equal(t, StatusDone, content.Status)
	require.NotNil(t, content.Analysis.ProductLookup)
	assert.True(t, content.Analysis.ProductLookup.OK)
	assert.Equal(t, "Nutella", content.Analysis.ProductLookup.Mapped.Name)
}

func TestDecodeContentEmptyBlob(t *testing.T) {
	event := &Event{}
	content, err := event.DecodeContent()
	require.NoError(t, err)
	assert.Empty(t, content.Status)
}
