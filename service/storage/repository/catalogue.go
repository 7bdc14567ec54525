package repository

import (
	"context"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame"
	"gorm.io/gorm"
)

type CatalogueRepository interface {
	GetByID(ctx context.Context, id types.CatalogueID) (*models.CatalogueEntry, error)
	GetActiveByOriginalNames(ctx context.Context, names []string) ([]*models.CatalogueEntry, error)
	List(ctx context.Context, query string, category string, page int, limit int) ([]*models.CatalogueEntry, int64, error)
	Save(ctx context.Context, entry *models.CatalogueEntry) error
	IncrementDownloadCount(ctx context.Context, id types.CatalogueID) error
	Deactivate(ctx context.Context, id types.CatalogueID) error
	Count(ctx context.Context, onlyActive bool) (int64, error)
}

func NewCatalogueRepository(service *frame.Service) CatalogueRepository {
	return &catalogueRepository{service: service}
}

type catalogueRepository struct {
	service *frame.Service
}

func (cr *catalogueRepository) GetByID(ctx context.Context, id types.CatalogueID) (*models.CatalogueEntry, error) {
	entry := &models.CatalogueEntry{}
	err := cr.service.DB(ctx, true).First(entry, " id = ?", string(id)).Error
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (cr *catalogueRepository) GetActiveByOriginalNames(ctx context.Context, names []string) ([]*models.CatalogueEntry, error) {
	var entries []*models.CatalogueEntry
	err := cr.service.DB(ctx, true).
		Where("original_name IN ? AND active = ?", names, true).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (cr *catalogueRepository) List(ctx context.Context, query string, category string, page int, limit int) ([]*models.CatalogueEntry, int64, error) {
	entries := make([]*models.CatalogueEntry, 0)

	tx := cr.service.DB(ctx, true).Model(&models.CatalogueEntry{}).Where("active = ?", true)

	if query != "" {
		searchTerm := "%" + query + "%"
		tx = tx.Where("file_name ILIKE ? OR original_name ILIKE ? OR description ILIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var total int64
	err := tx.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// Use 0-based pagination: page 0 is the first page
	err = tx.Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (cr *catalogueRepository) Save(ctx context.Context, entry *models.CatalogueEntry) error {
	return cr.service.DB(ctx, false).Save(entry).Error
}

// IncrementDownloadCount bumps the denormalised counter in a single SQL
// update so concurrent downloads of the same entry never lose updates.
func (cr *catalogueRepository) IncrementDownloadCount(ctx context.Context, id types.CatalogueID) error {
	return cr.service.DB(ctx, false).
		Model(&models.CatalogueEntry{}).
		Where("id = ?", string(id)).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func (cr *catalogueRepository) Deactivate(ctx context.Context, id types.CatalogueID) error {
	return cr.service.DB(ctx, false).
		Model(&models.CatalogueEntry{}).
		Where("id = ?", string(id)).
		UpdateColumn("active", false).Error
}

func (cr *catalogueRepository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	var total int64
	tx := cr.service.DB(ctx, true).Model(&models.CatalogueEntry{})
	if onlyActive {
		tx = tx.Where("active = ?", true)
	}
	err := tx.Count(&total).Error
	return total, err
}
