package routing

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/gorilla/mux"
)

// Dashboard implements GET /api/admin/dashboard.
func (s *CatalogueServer) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.dashboardService.Stats(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, stats, "Dashboard statistics retrieved")
}

// ListActivities implements GET /api/admin/activities.
func (s *CatalogueServer) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parseIntParam(r, "page", 0)
	limit := parseIntParam(r, "limit", 50)
	kind := r.FormValue("kind")

	activities, total, err := s.activityRepo.List(ctx, kind, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"activities": activities,
		"page":       page,
		"total":      total,
	}, "Activities retrieved")
}

// ListDownloads implements GET /api/admin/downloads.
func (s *CatalogueServer) ListDownloads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := parseIntParam(r, "limit", 50)

	downloads, err := s.downloadRepo.ListRecent(ctx, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"downloads": downloads,
	}, "Download events retrieved")
}

// ListNotifications implements GET /api/admin/notifications.
func (s *CatalogueServer) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parseIntParam(r, "page", 0)
	limit := parseIntParam(r, "limit", 50)
	unreadOnly := r.FormValue("unread") == "true"

	notifications, total, err := s.notificationRepo.List(ctx, unreadOnly, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"notifications": notifications,
		"page":          page,
		"total":         total,
	}, "Notifications retrieved")
}

// MarkNotificationRead implements POST /api/admin/notifications/{notificationId}/read.
func (s *CatalogueServer) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	err := s.notificationRepo.MarkRead(ctx, vars["notificationId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, nil, "Notification marked as read")
}

// ListSubscribers implements GET /api/admin/subscribers.
func (s *CatalogueServer) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parseIntParam(r, "page", 0)
	limit := parseIntParam(r, "limit", 20)

	subscribers, total, err := s.subscriberRepo.List(ctx, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"subscribers": subscribers,
		"page":        page,
		"total":       total,
	}, "Newsletter subscribers retrieved")
}

// UpdateSubscriberStatus implements PUT /api/admin/subscribers/{subscriberId}/status.
func (s *CatalogueServer) UpdateSubscriberStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	var body struct {
		Active bool `json:"isActive"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeError(w, r, business.ErrValidationFailed)
		return
	}

	subscriber, err := s.newsletterService.SetSubscriberStatus(ctx, vars["subscriberId"], body.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Subscriber deactivated"
	if body.Active {
		message = "Subscriber activated"
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"id":       subscriber.GetID(),
		"email":    subscriber.Email,
		"isActive": subscriber.Active,
	}, message)
}

// ExportSubscribers implements GET /api/admin/subscribers/export. The
// response is a CSV attachment rather than the JSON envelope.
func (s *CatalogueServer) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscribers, err := s.subscriberRepo.ListAll(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="newsletter_subscribers.csv"`)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"email", "name", "companyName", "phoneNumber", "city",
		"source", "isActive", "subscribedAt", "unsubscribedAt",
	})

	for _, subscriber := range subscribers {
		unsubscribedAt := ""
		if subscriber.UnsubscribedAt != nil {
			unsubscribedAt = subscriber.UnsubscribedAt.Format(time.RFC3339)
		}

		_ = writer.Write([]string{
			subscriber.Email,
			subscriber.Name,
			subscriber.CompanyName,
			subscriber.PhoneNumber,
			subscriber.City,
			subscriber.Source,
			strconv.FormatBool(subscriber.Active),
			subscriber.CreatedAt.Format(time.RFC3339),
			unsubscribedAt,
		})
	}
	writer.Flush()
}

// ListActorActivities implements GET /api/admin/actors/{actorId}/activities.
func (s *CatalogueServer) ListActorActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	limit := parseIntParam(r, "limit", 50)

	activities, err := s.activityRepo.ListByActor(ctx, types.ActorID(vars["actorId"]), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"activities": activities,
	}, "Actor activities retrieved")
}
