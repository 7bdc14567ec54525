package repository

import (
	"context"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/pitabwire/frame"
)

func Migrate(ctx context.Context, svc *frame.Service, migrationPath string) error {
	return svc.MigrateDatastore(ctx, migrationPath,
		&models.CatalogueEntry{}, &models.DownloadEvent{},
		&models.Activity{}, &models.NewsletterSubscriber{},
		&models.Notification{})
}
