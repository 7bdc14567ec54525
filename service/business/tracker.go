package business

import (
	"context"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/util"
)

// TrackedItem is one entry of a legacy batch tracking submission.
type TrackedItem struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Tracker records catalogue accesses. The per catalogue download path
// always inserts and bumps the counter; the legacy batch path instead
// suppresses repeats inside a trailing window and never touches
// counters. The two policies coexisted in different endpoints and are
// kept apart on purpose.
type Tracker struct {
	catalogueRepo repository.CatalogueRepository
	downloadRepo  repository.DownloadRepository
	dedupeWindow  time.Duration
}

func NewTracker(
	catalogueRepo repository.CatalogueRepository,
	downloadRepo repository.DownloadRepository,
	dedupeWindow time.Duration,
) *Tracker {
	return &Tracker{
		catalogueRepo: catalogueRepo,
		downloadRepo:  downloadRepo,
		dedupeWindow:  dedupeWindow,
	}
}

// Record persists one download event and increments the entry counter.
// Every physical access counts, repeats included.
func (t *Tracker) Record(ctx context.Context, actorID types.ActorID, entry *models.CatalogueEntry, originIP, originClient string) (*models.DownloadEvent, error) {
	event := &models.DownloadEvent{
		ActorID:      string(actorID),
		CatalogueID:  entry.GetID(),
		FileName:     entry.OriginalName,
		FileSize:     entry.FileSize,
		OriginIP:     originIP,
		OriginClient: originClient,
	}
	event.GenID(ctx)

	err := t.downloadRepo.Save(ctx, event)
	if err != nil {
		return nil, err
	}

	err = t.catalogueRepo.IncrementDownloadCount(ctx, types.CatalogueID(entry.GetID()))
	if err != nil {
		return event, err
	}

	return event, nil
}

// RecordBatch applies the legacy dedupe policy: an item whose file name
// was already recorded for the same actor or origin address within the
// window is skipped. Returns how many items were newly recorded.
func (t *Tracker) RecordBatch(ctx context.Context, actorID types.ActorID, items []TrackedItem, originIP, originClient string) (int, error) {
	since := time.Now().Add(-t.dedupeWindow)
	recorded := 0

	for _, item := range items {
		exists, err := t.downloadRepo.ExistsRecent(ctx, actorID, originIP, item.Title, since)
		if err != nil {
			return recorded, err
		}

		if exists {
			util.Log(ctx).
				With("fileName", item.Title).
				With("originIP", originIP).
				Debug("suppressing duplicate download record")
			continue
		}

		event := &models.DownloadEvent{
			ActorID:      string(actorID),
			FileName:     item.Title,
			OriginIP:     originIP,
			OriginClient: originClient,
		}
		event.GenID(ctx)

		err = t.downloadRepo.Save(ctx, event)
		if err != nil {
			return recorded, err
		}
		recorded++
	}

	return recorded, nil
}
