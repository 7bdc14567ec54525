package repository

import (
	"context"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/pitabwire/frame"
)

type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	Save(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, unreadOnly bool, page int, limit int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
}

func NewNotificationRepository(service *frame.Service) NotificationRepository {
	return &notificationRepository{service: service}
}

type notificationRepository struct {
	service *frame.Service
}

func (nr *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	notification := &models.Notification{}
	err := nr.service.DB(ctx, true).First(notification, " id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return notification, nil
}

func (nr *notificationRepository) Save(ctx context.Context, notification *models.Notification) error {
	return nr.service.DB(ctx, false).Save(notification).Error
}

func (nr *notificationRepository) List(ctx context.Context, unreadOnly bool, page int, limit int) ([]*models.Notification, int64, error) {
	notifications := make([]*models.Notification, 0)

	tx := nr.service.DB(ctx, true).Model(&models.Notification{})
	if unreadOnly {
		tx = tx.Where("read_at IS NULL")
	}

	var total int64
	err := tx.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = tx.Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (nr *notificationRepository) MarkRead(ctx context.Context, id string) error {
	now := time.Now()
	return nr.service.DB(ctx, false).
		Model(&models.Notification{}).
		Where("id = ?", id).
		UpdateColumn("read_at", &now).Error
}
