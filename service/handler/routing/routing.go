package routing

import (
	"net/http"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/gorilla/mux"
	"github.com/pitabwire/frame"
)

const APIPathPrefix = "/api"

// CatalogueServer holds the handler dependencies for the HTTP surface.
type CatalogueServer struct {
	Service *frame.Service

	catalogueService  business.CatalogueService
	newsletterService business.NewsletterService
	dashboardService  business.DashboardService

	activityRepo     repository.ActivityRepository
	downloadRepo     repository.DownloadRepository
	notificationRepo repository.NotificationRepository
	subscriberRepo   repository.SubscriberRepository
}

func NewCatalogueServer(
	service *frame.Service,
	catalogueService business.CatalogueService,
	newsletterService business.NewsletterService,
	dashboardService business.DashboardService,
) *CatalogueServer {
	return &CatalogueServer{
		Service:           service,
		catalogueService:  catalogueService,
		newsletterService: newsletterService,
		dashboardService:  dashboardService,
		activityRepo:      repository.NewActivityRepository(service),
		downloadRepo:      repository.NewDownloadRepository(service),
		notificationRepo:  repository.NewNotificationRepository(service),
		subscriberRepo:    repository.NewSubscriberRepository(service),
	}
}

// SetupPublicRoutes registers the endpoints reachable without
// authentication. The caller mounts the authenticated router behind
// these as a catch-all, so registration order matters.
func (s *CatalogueServer) SetupPublicRoutes(router *mux.Router) {
	api := router.PathPrefix(APIPathPrefix).Subrouter()

	api.HandleFunc("/health", s.Health).Methods(http.MethodGet)

	api.HandleFunc("/catalogue", s.ListCatalogues).Methods(http.MethodGet)

	// Legacy batch tracking shares the /catalogue/download path with
	// nothing else; it predates the per-entry download endpoint.
	api.HandleFunc("/catalogue/download", s.TrackBatch).Methods(http.MethodPost)
	api.HandleFunc("/catalogue/request-email", s.RequestEmail).Methods(http.MethodPost)
	api.HandleFunc("/catalogue/{catalogueId}", s.GetCatalogue).Methods(http.MethodGet)

	api.HandleFunc("/newsletter/subscribe", s.Subscribe).Methods(http.MethodPost)
	api.HandleFunc("/newsletter/unsubscribe/{token}", s.Unsubscribe).Methods(http.MethodGet)
}

// SetupAuthenticatedRoutes registers the endpoints that require a
// signed-in actor. The returned router is wrapped in the service's
// authentication middleware by the caller.
func (s *CatalogueServer) SetupAuthenticatedRoutes() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix(APIPathPrefix).Subrouter()

	api.HandleFunc("/catalogue/upload", s.UploadCatalogue).Methods(http.MethodPost)
	api.HandleFunc("/catalogue/product/{productId}/download", s.DownloadProduct).Methods(http.MethodGet)
	api.HandleFunc("/catalogue/{catalogueId}/download", s.DownloadCatalogue).Methods(http.MethodGet)
	api.HandleFunc("/catalogue/{catalogueId}", s.UpdateCatalogue).Methods(http.MethodPut)
	api.HandleFunc("/catalogue/{catalogueId}", s.DeleteCatalogue).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/dashboard", s.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/activities", s.ListActivities).Methods(http.MethodGet)
	admin.HandleFunc("/downloads", s.ListDownloads).Methods(http.MethodGet)
	admin.HandleFunc("/notifications", s.ListNotifications).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/{notificationId}/read", s.MarkNotificationRead).Methods(http.MethodPost)
	admin.HandleFunc("/subscribers", s.ListSubscribers).Methods(http.MethodGet)
	admin.HandleFunc("/subscribers/export", s.ExportSubscribers).Methods(http.MethodGet)
	admin.HandleFunc("/subscribers/{subscriberId}/status", s.UpdateSubscriberStatus).Methods(http.MethodPut)
	admin.HandleFunc("/actors/{actorId}/activities", s.ListActorActivities).Methods(http.MethodGet)

	return router
}
