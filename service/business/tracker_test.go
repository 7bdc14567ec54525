package business

import (
	"context"
	"testing"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/pitabwire/frame/data"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeEntry(id, originalName string) *models.CatalogueEntry {
	return &models.CatalogueEntry{
		BaseModel:    data.BaseModel{ID: id},
		OriginalName: originalName,
		FileName:     id + ".pdf",
		FileSize:     2048,
		MimeType:     "application/pdf",
		Active:       true,
	}
}

func TestTracker_Record(t *testing.T) {
	ctx := context.Background()

	entry := activeEntry("cat-1", "Tape Extrusion Lines.pdf")
	catalogueRepo := newFakeCatalogueRepo(entry)
	downloadRepo := &fakeDownloadRepo{}

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	// Repeat accesses all count, there is no dedupe on this path.
	for i := 0; i < 3; i++ {
		event, err := tracker.Record(ctx, "actor-1", entry, "10.0.0.1", "test-agent")
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.NotEmpty(t, event.GetID())
		assert.Equal(t, entry.GetID(), event.CatalogueID)
		assert.Equal(t, entry.OriginalName, event.FileName)
	}

	count, err := downloadRepo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.EqualValues(t, 3, entry.DownloadCount)
}

func TestTracker_RecordAnonymous(t *testing.T) {
	ctx := context.Background()

	entry := activeEntry("cat-anon", "Recycling Lines.pdf")
	catalogueRepo := newFakeCatalogueRepo(entry)
	downloadRepo := &fakeDownloadRepo{}

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	event, err := tracker.Record(ctx, "", entry, "10.0.0.9", "test-agent")
	require.NoError(t, err)
	assert.Empty(t, event.ActorID)
	assert.EqualValues(t, 1, entry.DownloadCount)
}

func TestTracker_RecordEventFailureSkipsCounter(t *testing.T) {
	ctx := context.Background()

	entry := activeEntry("cat-2", "Granulator.pdf")
	catalogueRepo := newFakeCatalogueRepo(entry)
	downloadRepo := &fakeDownloadRepo{saveErr: errors.New("insert failed")}

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	_, err := tracker.Record(ctx, "actor-1", entry, "10.0.0.1", "test-agent")
	assert.Error(t, err)
	assert.EqualValues(t, 0, entry.DownloadCount)
}

func TestTracker_RecordBatchDedupe(t *testing.T) {
	ctx := context.Background()

	catalogueRepo := newFakeCatalogueRepo()
	downloadRepo := &fakeDownloadRepo{}

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	items := []TrackedItem{
		{URL: "/files/tape.pdf", Title: "Tape Extrusion Lines.pdf", Type: "pdf"},
		{URL: "/files/winders.pdf", Title: "Tape Winders.pdf", Type: "pdf"},
	}

	recorded, err := tracker.RecordBatch(ctx, "actor-1", items, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 2, recorded)

	// Same submission inside the window is suppressed entirely.
	recorded, err = tracker.RecordBatch(ctx, "actor-1", items, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 0, recorded)

	count, countErr := downloadRepo.Count(ctx)
	require.NoError(t, countErr)
	assert.EqualValues(t, 2, count)
}

func TestTracker_RecordBatchOutsideWindow(t *testing.T) {
	ctx := context.Background()

	catalogueRepo := newFakeCatalogueRepo()
	downloadRepo := &fakeDownloadRepo{}

	// A record from two days ago lies outside the 24h window and must
	// not suppress a fresh submission.
	old := &models.DownloadEvent{
		ActorID:  "actor-1",
		FileName: "Tape Extrusion Lines.pdf",
		OriginIP: "10.0.0.1",
	}
	downloadRepo.backdate(old, time.Now().Add(-48*time.Hour))

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	items := []TrackedItem{
		{URL: "/files/tape.pdf", Title: "Tape Extrusion Lines.pdf", Type: "pdf"},
	}

	recorded, err := tracker.RecordBatch(ctx, "actor-1", items, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)
}

func TestTracker_RecordBatchMatchesByOriginIP(t *testing.T) {
	ctx := context.Background()

	catalogueRepo := newFakeCatalogueRepo()
	downloadRepo := &fakeDownloadRepo{}

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	items := []TrackedItem{
		{URL: "/files/tape.pdf", Title: "Tape Extrusion Lines.pdf", Type: "pdf"},
	}

	// Anonymous submission first, then a signed in one from the same
	// address. The address match suppresses the repeat.
	recorded, err := tracker.RecordBatch(ctx, "", items, "10.0.0.5", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)

	recorded, err = tracker.RecordBatch(ctx, "actor-9", items, "10.0.0.5", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 0, recorded)

	// A different address with a different actor is a new record.
	recorded, err = tracker.RecordBatch(ctx, "actor-7", items, "10.0.0.6", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)
}

func TestTracker_RecordBatchNeverTouchesCounters(t *testing.T) {
	ctx := context.Background()

	entry := activeEntry("cat-3", "Tape Extrusion Lines.pdf")
	catalogueRepo := newFakeCatalogueRepo(entry)
	downloadRepo := &fakeDownloadRepo{}

	tracker := NewTracker(catalogueRepo, downloadRepo, 24*time.Hour)

	items := []TrackedItem{
		{URL: "/files/tape.pdf", Title: "Tape Extrusion Lines.pdf", Type: "pdf"},
	}

	_, err := tracker.RecordBatch(ctx, "actor-1", items, "10.0.0.1", "test-agent")
	require.NoError(t, err)

	assert.EqualValues(t, 0, entry.DownloadCount)
}
