package events

import (
	"context"
	"errors"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/pitabwire/frame"
)

type NotificationSaveEvent struct {
	Service                *frame.Service
	NotificationRepository repository.NotificationRepository
}

func (nse *NotificationSaveEvent) Name() string {
	return business.EventNotificationSave
}

func (nse *NotificationSaveEvent) PayloadType() any {
	return models.Notification{}
}

func (nse *NotificationSaveEvent) Validate(_ context.Context, payload any) error {
	if _, ok := payload.(*models.Notification); !ok {
		return errors.New(" payload is not of type Notification")
	}

	return nil
}

func (nse *NotificationSaveEvent) Execute(ctx context.Context, payload any) error {
	notification := payload.(*models.Notification)

	logger := nse.Service.Log(ctx).WithField("payload", notification).
		WithField("type", nse.Name())
	logger.Debug("handling notification save event")

	return nse.NotificationRepository.Save(ctx, notification)
}

func NewNotificationSaveHandler(service *frame.Service) frame.EventI {
	notificationRepository := repository.NewNotificationRepository(service)
	return &NotificationSaveEvent{service, notificationRepository}
}
