package repository

import (
	"context"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame"
)

type ActivityRepository interface {
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	Save(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, kind string, page int, limit int) ([]*models.Activity, int64, error)
	ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*models.Activity, error)
	CountKindSince(ctx context.Context, kind string, since time.Time) (int64, error)
}

func NewActivityRepository(service *frame.Service) ActivityRepository {
	return &activityRepository{service: service}
}

type activityRepository struct {
	service *frame.Service
}

func (ar *activityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	activity := &models.Activity{}
	err := ar.service.DB(ctx, true).First(activity, " id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (ar *activityRepository) Save(ctx context.Context, activity *models.Activity) error {
	return ar.service.DB(ctx, false).Save(activity).Error
}

func (ar *activityRepository) List(ctx context.Context, kind string, page int, limit int) ([]*models.Activity, int64, error) {
	activities := make([]*models.Activity, 0)

	tx := ar.service.DB(ctx, true).Model(&models.Activity{})
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}

	var total int64
	err := tx.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = tx.Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (ar *activityRepository) ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*models.Activity, error) {
	activities := make([]*models.Activity, 0)
	err := ar.service.DB(ctx, true).
		Where("actor_id = ?", string(actorID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	return activities, nil
}

func (ar *activityRepository) CountKindSince(ctx context.Context, kind string, since time.Time) (int64, error) {
	var total int64
	err := ar.service.DB(ctx, true).Model(&models.Activity{}).
		Where("kind = ? AND created_at >= ?", kind, since).
		Count(&total).Error
	return total, err
}
