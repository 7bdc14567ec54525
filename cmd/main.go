package main

import (
	"context"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/events"
	"github.com/antinvestor/service-catalogue/service/handler/routing"
	"github.com/antinvestor/service-catalogue/service/mailer"
	"github.com/antinvestor/service-catalogue/service/queue"
	"github.com/antinvestor/service-catalogue/service/storage/provider"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pitabwire/frame"
	"github.com/pitabwire/util"
)

func main() {

	serviceName := "service_catalogue"
	ctx := context.Background()

	cfg, err := frame.ConfigFromEnv[config.CatalogueConfig]()
	if err != nil {
		util.Log(ctx).With("err", err).Error("could not process configs")
		return
	}

	ctx, svc := frame.NewService(serviceName, frame.WithConfig(&cfg))

	log := svc.Log(ctx)

	serviceOptions := []frame.Option{frame.WithDatastore()}

	// Handle database migration if requested
	if handleDatabaseMigration(ctx, svc, cfg, log) {
		return
	}

	storageProvider, err := provider.GetStorageProvider(ctx, &cfg)
	if err != nil {
		log.WithError(err).Fatal("main -- Could not setup or access storage")
	}

	products, err := business.LoadProductMap(cfg.ProductMapPath)
	if err != nil {
		log.WithError(err).Fatal("main -- Could not load product catalogue map")
	}

	emailSender := mailer.NewMailer(&cfg)

	catalogueService := business.NewCatalogueService(svc, &cfg, products, storageProvider, emailSender)
	newsletterService := business.NewNewsletterService(svc, &cfg)
	dashboardService := business.NewDashboardService(svc)

	server := routing.NewCatalogueServer(svc, catalogueService, newsletterService, dashboardService)

	jwtAudience := cfg.Oauth2JwtVerifyAudience
	if jwtAudience == "" {
		jwtAudience = serviceName
	}

	authedRouter := server.SetupAuthenticatedRoutes()
	authServiceHandlers := handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true))(
		svc.AuthenticationMiddleware(authedRouter, jwtAudience, cfg.Oauth2JwtVerifyIssuer))

	publicRouter := mux.NewRouter()
	server.SetupPublicRoutes(publicRouter)
	publicRouter.PathPrefix("/").Handler(authServiceHandlers)

	defaultServer := frame.WithHTTPHandler(publicRouter)
	serviceOptions = append(serviceOptions, defaultServer)

	serviceEvents := frame.WithRegisterEvents(
		events.NewActivitySaveHandler(svc),
		events.NewNotificationSaveHandler(svc),
	)

	serviceOptions = append(serviceOptions, serviceEvents)

	emailQueueHandler := queue.NewEmailQueueHandler(svc, emailSender)
	emailSendQueue := frame.WithRegisterSubscriber(cfg.QueueEmailSendName, cfg.QueueEmailSendURL, &emailQueueHandler)
	emailSendPublish := frame.WithRegisterPublisher(cfg.QueueEmailSendName, cfg.QueueEmailSendURL)
	serviceOptions = append(serviceOptions, emailSendQueue, emailSendPublish)

	svc.Init(ctx, serviceOptions...)

	log.WithField("server http port", cfg.HTTPPort()).
		Info(" Initiating server operations")

	err = svc.Run(ctx, "")
	if err != nil {
		log.WithError(err).Fatal("main -- Could not run Server : %v", err)
	}

}

// handleDatabaseMigration performs database migration if configured to do so.
func handleDatabaseMigration(
	ctx context.Context,
	svc *frame.Service,
	cfg config.CatalogueConfig,
	log *util.LogEntry,
) bool {
	serviceOptions := []frame.Option{frame.WithDatastore()}

	if cfg.DoDatabaseMigrate() {
		svc.Init(ctx, serviceOptions...)

		err := repository.Migrate(ctx, svc, cfg.GetDatabaseMigrationPath())
		if err != nil {
			log.WithError(err).Fatal("main -- Could not migrate successfully")
		}
		return true
	}
	return false
}
