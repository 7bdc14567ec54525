package events

import (
	"context"
	"errors"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/pitabwire/frame"
)

type ActivitySaveEvent struct {
	Service            *frame.Service
	ActivityRepository repository.ActivityRepository
}

func (ase *ActivitySaveEvent) Name() string {
	return business.EventActivitySave
}

func (ase *ActivitySaveEvent) PayloadType() any {
	return models.Activity{}
}

func (ase *ActivitySaveEvent) Validate(_ context.Context, payload any) error {
	if _, ok := payload.(*models.Activity); !ok {
		return errors.New(" payload is not of type Activity")
	}

	return nil
}

func (ase *ActivitySaveEvent) Execute(ctx context.Context, payload any) error {
	activity := payload.(*models.Activity)

	logger := ase.Service.Log(ctx).WithField("payload", activity).
		WithField("type", ase.Name())
	logger.Debug("handling activity save event")

	return ase.ActivityRepository.Save(ctx, activity)
}

func NewActivitySaveHandler(service *frame.Service) frame.EventI {
	activityRepository := repository.NewActivityRepository(service)
	return &ActivitySaveEvent{service, activityRepository}
}
