package business

import (
	"context"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/types"
	"gorm.io/gorm"
)

// In memory repository stand-ins for exercising the pure business
// pieces without a database.

type fakeCatalogueRepo struct {
	entries map[string]*models.CatalogueEntry

	saveErr      error
	incrementErr error
}

func newFakeCatalogueRepo(entries ...*models.CatalogueEntry) *fakeCatalogueRepo {
	repo := &fakeCatalogueRepo{entries: map[string]*models.CatalogueEntry{}}
	for _, entry := range entries {
		repo.entries[entry.GetID()] = entry
	}
	return repo
}

func (f *fakeCatalogueRepo) GetByID(_ context.Context, id types.CatalogueID) (*models.CatalogueEntry, error) {
	entry, ok := f.entries[string(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (f *fakeCatalogueRepo) GetActiveByOriginalNames(_ context.Context, names []string) ([]*models.CatalogueEntry, error) {
	wanted := map[string]bool{}
	for _, name := range names {
		wanted[name] = true
	}

	var result []*models.CatalogueEntry
	for _, entry := range f.entries {
		if entry.Active && wanted[entry.OriginalName] {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (f *fakeCatalogueRepo) List(_ context.Context, _ string, _ string, _ int, _ int) ([]*models.CatalogueEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeCatalogueRepo) Save(_ context.Context, entry *models.CatalogueEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries[entry.GetID()] = entry
	return nil
}

func (f *fakeCatalogueRepo) IncrementDownloadCount(_ context.Context, id types.CatalogueID) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	entry, ok := f.entries[string(id)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.DownloadCount++
	return nil
}

func (f *fakeCatalogueRepo) Deactivate(_ context.Context, id types.CatalogueID) error {
	entry, ok := f.entries[string(id)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Active = false
	return nil
}

func (f *fakeCatalogueRepo) Count(_ context.Context, onlyActive bool) (int64, error) {
	var count int64
	for _, entry := range f.entries {
		if !onlyActive || entry.Active {
			count++
		}
	}
	return count, nil
}

type recordedDownload struct {
	event *models.DownloadEvent
	at    time.Time
}

type fakeDownloadRepo struct {
	records []recordedDownload

	saveErr error
}

func (f *fakeDownloadRepo) GetByID(_ context.Context, id string) (*models.DownloadEvent, error) {
	for _, record := range f.records {
		if record.event.GetID() == id {
			return record.event, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDownloadRepo) Save(_ context.Context, event *models.DownloadEvent) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = append(f.records, recordedDownload{event: event, at: time.Now()})
	return nil
}

// backdate injects a historical record without going through Save.
func (f *fakeDownloadRepo) backdate(event *models.DownloadEvent, at time.Time) {
	f.records = append(f.records, recordedDownload{event: event, at: at})
}

func (f *fakeDownloadRepo) ExistsRecent(_ context.Context, actorID types.ActorID, originIP string, fileName string, since time.Time) (bool, error) {
	for _, record := range f.records {
		if record.event.FileName != fileName {
			continue
		}
		if record.at.Before(since) {
			continue
		}

		if actorID != "" {
			if record.event.ActorID == string(actorID) || record.event.OriginIP == originIP {
				return true, nil
			}
			continue
		}

		if record.event.OriginIP == originIP {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDownloadRepo) ListRecent(_ context.Context, limit int) ([]*models.DownloadEvent, error) {
	var result []*models.DownloadEvent
	for i := len(f.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, f.records[i].event)
	}
	return result, nil
}

func (f *fakeDownloadRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeDownloadRepo) CountByCatalogue(_ context.Context, catalogueID types.CatalogueID) (int64, error) {
	var count int64
	for _, record := range f.records {
		if record.event.CatalogueID == string(catalogueID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeDownloadRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, record := range f.records {
		if !record.at.Before(since) {
			count++
		}
	}
	return count, nil
}
