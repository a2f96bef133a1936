package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulzar/backend/internal/domain/scan"
	"github.com/pulzar/backend/internal/domain/shared"
)

func setupScanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&scan.Event{}))
	return db
}

func TestGormEventRepository_SaveAndReload(t *testing.T) {
	db := setupScanTestDB(t)
	repo := NewGormEventRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	event, err := scan.NewEvent(orgID, "4006381333931", "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, event))

	found, err := repo.FindByID(ctx, orgID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, scan.EventTypeScannerRead, found.Type)

	content, err := found.DecodeContent()
	require.NoError(t, err)
	assert.Equal(t, scan.StatusCreated, content.Status)
	assert.Equal(t, "4006381333931", content.Payload.Raw)

	_, err = repo.FindByID(ctx, uuid.New(), event.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEventRepository_MergePersistsAcrossReloads(t *testing.T) {
	db := setupScanTestDB(t)
	repo := NewGormEventRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	event, err := scan.NewEvent(orgID, "73513537", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, event))

	// Reload, merge, save: the read-modify-write cycle the pipeline uses
	loaded, err := repo.FindByID(ctx, orgID, event.ID)
	require.NoError(t, err)
	err = loaded.MergeContent(func(c *scan.Content) {
		c.Status = scan.StatusProcessing
		c.EnsureAnalysis().Identifier = &scan.IdentifierAnalysis{Value: "73513537", Type: "EAN8", Symbology: "EAN8", Valid: true}
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	final, err := repo.FindByID(ctx, orgID, event.ID)
	require.NoError(t, err)
	content, err := final.DecodeContent()
	require.NoError(t, err)
	assert.Equal(t, scan.StatusProcessing, content.Status)
	require.NotNil(t, content.Analysis)
	require.NotNil(t, content.Analysis.Identifier)
	assert.Equal(t, "EAN8", content.Analysis.Identifier.Symbology)
	assert.Equal(t, "73513537", content.Payload.Raw)
}

func TestGormEventRepository_FindAllNewestFirst(t *testing.T) {
	db := setupScanTestDB(t)
	repo := NewGormEventRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	first, err := scan.NewEvent(orgID, "100000000", "")
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, first))

	second, err := scan.NewEvent(orgID, "200000000", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	events, err := repo.FindAll(ctx, orgID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, second.ID, events[0].ID)

	count, err := repo.Count(ctx, orgID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
