package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/antinvestor/service-catalogue/service/mailer"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/data"
)

const (
	EventActivitySave     = "catalogue.activity.save.event"
	EventNotificationSave = "catalogue.notification.save.event"
)

// Dispatcher fires the side effects of a successful access: an activity
// log entry, an admin notification record and an operator email. All of
// them are best effort; a failure is logged and never reaches the
// caller.
type Dispatcher struct {
	service        *frame.Service
	emailQueueName string
	operatorEmails []string
}

func NewDispatcher(service *frame.Service, cfg *config.CatalogueConfig) *Dispatcher {
	var operators []string
	for _, addr := range strings.Split(cfg.OperatorEmails, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			operators = append(operators, addr)
		}
	}

	return &Dispatcher{
		service:        service,
		emailQueueName: cfg.QueueEmailSendName,
		operatorEmails: operators,
	}
}

// LogActivity appends an activity log entry asynchronously.
func (d *Dispatcher) LogActivity(ctx context.Context, kind string, actorID types.ActorID, details map[string]any, originIP, originClient string) {
	activity := &models.Activity{
		Kind:         kind,
		ActorID:      string(actorID),
		Details:      data.JSONMap(details),
		OriginIP:     originIP,
		OriginClient: originClient,
	}
	activity.GenID(ctx)

	err := d.service.Emit(ctx, EventActivitySave, activity)
	if err != nil {
		d.service.Log(ctx).WithError(err).
			WithField("kind", kind).
			Warn("could not dispatch activity log entry")
	}
}

func (d *Dispatcher) saveNotification(ctx context.Context, notification *models.Notification) {
	notification.GenID(ctx)

	err := d.service.Emit(ctx, EventNotificationSave, notification)
	if err != nil {
		d.service.Log(ctx).WithError(err).
			WithField("kind", notification.Kind).
			Warn("could not dispatch notification record")
	}
}

func (d *Dispatcher) notifyOperators(ctx context.Context, subject, body string) {
	if len(d.operatorEmails) == 0 {
		return
	}

	message := &mailer.EmailMessage{
		To:      d.operatorEmails,
		Subject: subject,
		Body:    body,
	}

	err := d.service.Publish(ctx, d.emailQueueName, message)
	if err != nil {
		d.service.Log(ctx).WithError(err).
			WithField("subject", subject).
			Warn("could not queue operator notification email")
	}
}

// CatalogueDownloaded fires the side effects of one direct download.
func (d *Dispatcher) CatalogueDownloaded(ctx context.Context, actorID types.ActorID, entry *models.CatalogueEntry, originIP, originClient string) {
	if actorID != "" {
		d.LogActivity(ctx, models.ActivityCatalogueDownload, actorID,
			map[string]any{
				"fileName":    entry.OriginalName,
				"catalogueId": entry.GetID(),
			}, originIP, originClient)
	}

	d.saveNotification(ctx, &models.Notification{
		Title:    "Catalogue Downloaded",
		Message:  fmt.Sprintf("%s was downloaded", entry.OriginalName),
		Kind:     models.NotificationCatalogueDownload,
		Priority: models.PriorityLow,
		Data: data.JSONMap{
			"catalogueId": entry.GetID(),
			"fileName":    entry.OriginalName,
			"actorId":     string(actorID),
		},
	})

	d.notifyOperators(ctx,
		"Catalogue Downloaded",
		fmt.Sprintf("Catalogue %q was downloaded from %s.", entry.OriginalName, originIP))
}

// ProductDownloaded fires the side effects of a product bundle download.
func (d *Dispatcher) ProductDownloaded(ctx context.Context, actorID types.ActorID, productKey string, entries []*models.CatalogueEntry, originIP, originClient string) {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.OriginalName)
	}

	d.LogActivity(ctx, models.ActivityProductCataloguesDownload, actorID,
		map[string]any{
			"productId":  productKey,
			"catalogues": strings.Join(names, ", "),
		}, originIP, originClient)

	d.notifyOperators(ctx,
		"Product Catalogues Downloaded",
		fmt.Sprintf("Catalogues for product %q were downloaded from %s.", productKey, originIP))
}

// EmailRequested fires the side effects of a catalogues-by-email request.
func (d *Dispatcher) EmailRequested(ctx context.Context, actorID types.ActorID, productKey, destination string, attached int, originIP, originClient string) {
	d.LogActivity(ctx, models.ActivityCatalogueEmailRequest, actorID,
		map[string]any{
			"productId":   productKey,
			"destination": destination,
			"attached":    attached,
		}, originIP, originClient)

	d.notifyOperators(ctx,
		"Catalogues Requested By Email",
		fmt.Sprintf("Catalogues for product %q were emailed to %s (requested from %s).",
			productKey, destination, originIP))
}
