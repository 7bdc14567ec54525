package repository

import (
	"context"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame"
	"gorm.io/gorm"
)

type DownloadRepository interface {
	GetByID(ctx context.Context, id string) (*models.DownloadEvent, error)
	Save(ctx context.Context, event *models.DownloadEvent) error
	ExistsRecent(ctx context.Context, actorID types.ActorID, originIP string, fileName string, since time.Time) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]*models.DownloadEvent, error)
	Count(ctx context.Context) (int64, error)
	CountByCatalogue(ctx context.Context, catalogueID types.CatalogueID) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

func NewDownloadRepository(service *frame.Service) DownloadRepository {
	return &downloadRepository{service: service}
}

type downloadRepository struct {
	service *frame.Service
}

func (dr *downloadRepository) GetByID(ctx context.Context, id string) (*models.DownloadEvent, error) {
	event := &models.DownloadEvent{}
	err := dr.service.DB(ctx, true).First(event, " id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (dr *downloadRepository) Save(ctx context.Context, event *models.DownloadEvent) error {
	return dr.service.DB(ctx, false).Save(event).Error
}

// ExistsRecent reports whether a download of fileName by the same actor
// or from the same address was already recorded after since. The check
// is not atomic against a concurrent identical insert; the batch
// tracking path accepts that race.
func (dr *downloadRepository) ExistsRecent(ctx context.Context, actorID types.ActorID, originIP string, fileName string, since time.Time) (bool, error) {
	var total int64

	tx := dr.service.DB(ctx, true).Model(&models.DownloadEvent{}).
		Where("file_name = ? AND created_at >= ?", fileName, since)

	if actorID != "" {
		tx = tx.Where(
			dr.service.DB(ctx, true).
				Where("actor_id = ?", string(actorID)).
				Or("origin_ip = ?", originIP),
		)
	} else {
		tx = tx.Where("origin_ip = ?", originIP)
	}

	err := tx.Count(&total).Error
	if err != nil {
		return false, err
	}

	return total > 0, nil
}

func (dr *downloadRepository) ListRecent(ctx context.Context, limit int) ([]*models.DownloadEvent, error) {
	events := make([]*models.DownloadEvent, 0)
	err := dr.service.DB(ctx, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (dr *downloadRepository) Count(ctx context.Context) (int64, error) {
	return dr.count(dr.service.DB(ctx, true))
}

func (dr *downloadRepository) CountByCatalogue(ctx context.Context, catalogueID types.CatalogueID) (int64, error) {
	return dr.count(dr.service.DB(ctx, true).Where("catalogue_id = ?", string(catalogueID)))
}

func (dr *downloadRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return dr.count(dr.service.DB(ctx, true).Where("created_at >= ?", since))
}

func (dr *downloadRepository) count(tx *gorm.DB) (int64, error) {
	var total int64
	err := tx.Model(&models.DownloadEvent{}).Count(&total).Error
	return total, err
}
