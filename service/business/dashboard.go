package business

import (
	"context"
	"time"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/pitabwire/frame"
)

// DashboardStats is the aggregate view the admin panel opens with.
type DashboardStats struct {
	TotalCatalogues      int64                   `json:"totalCatalogues"`
	ActiveCatalogues     int64                   `json:"activeCatalogues"`
	TotalDownloads       int64                   `json:"totalDownloads"`
	DownloadsLast30d     int64                   `json:"downloadsLast30d"`
	EmailRequestsLast30d int64                   `json:"emailRequestsLast30d"`
	TotalSubscribers     int64                   `json:"totalSubscribers"`
	ActiveSubscribers    int64                   `json:"activeSubscribers"`
	RecentDownloads      []*models.DownloadEvent `json:"recentDownloads"`
	RecentActivities     []*models.Activity      `json:"recentActivities"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

func NewDashboardService(service *frame.Service) DashboardService {
	return &dashboardService{
		catalogueRepo:  repository.NewCatalogueRepository(service),
		downloadRepo:   repository.NewDownloadRepository(service),
		activityRepo:   repository.NewActivityRepository(service),
		subscriberRepo: repository.NewSubscriberRepository(service),
	}
}

type dashboardService struct {
	catalogueRepo  repository.CatalogueRepository
	downloadRepo   repository.DownloadRepository
	activityRepo   repository.ActivityRepository
	subscriberRepo repository.SubscriberRepository
}

func (ds *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	stats.TotalCatalogues, err = ds.catalogueRepo.Count(ctx, false)
	if err != nil {
		return nil, err
	}

	stats.ActiveCatalogues, err = ds.catalogueRepo.Count(ctx, true)
	if err != nil {
		return nil, err
	}

	stats.TotalDownloads, err = ds.downloadRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats.DownloadsLast30d, err = ds.downloadRepo.CountSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	stats.EmailRequestsLast30d, err = ds.activityRepo.CountKindSince(ctx,
		models.ActivityCatalogueEmailRequest, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	stats.TotalSubscribers, err = ds.subscriberRepo.Count(ctx, false)
	if err != nil {
		return nil, err
	}

	stats.ActiveSubscribers, err = ds.subscriberRepo.Count(ctx, true)
	if err != nil {
		return nil, err
	}

	stats.RecentDownloads, err = ds.downloadRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}

	stats.RecentActivities, _, err = ds.activityRepo.List(ctx, "", 0, 10)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
