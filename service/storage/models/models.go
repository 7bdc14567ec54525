package models

import (
	"time"

	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame/data"
)

// CatalogueEntry holds the metadata of one uploaded catalogue document.
// Entries are never hard deleted; deactivation flips Active instead so
// historical download events keep a valid reference.
type CatalogueEntry struct {
	data.BaseModel

	FileName     string `gorm:"type:TEXT"`
	OriginalName string `gorm:"type:TEXT;index"`
	FilePath     string `gorm:"type:TEXT"`
	FileSize     int64
	MimeType     string `gorm:"type:TEXT"`
	UploadedBy   string `gorm:"type:TEXT"`

	Active bool `gorm:"index"`

	// DownloadCount is denormalised from download events and is only
	// ever mutated through CatalogueRepository.IncrementDownloadCount.
	DownloadCount int64

	Description string `gorm:"type:TEXT"`
	Category    string `gorm:"type:TEXT"`
}

func (ce *CatalogueEntry) ToApi() *types.CatalogueInfo {
	return &types.CatalogueInfo{
		ID:            types.CatalogueID(ce.GetID()),
		FileName:      ce.FileName,
		OriginalName:  ce.OriginalName,
		FileSize:      types.FileSizeBytes(ce.FileSize),
		MimeType:      types.ContentType(ce.MimeType),
		UploadedBy:    types.ActorID(ce.UploadedBy),
		Active:        ce.Active,
		DownloadCount: ce.DownloadCount,
		Description:   ce.Description,
		Category:      ce.Category,
		CreatedAt:     ce.CreatedAt.Unix(),
	}
}

// DownloadEvent is the immutable audit record of one access to a
// catalogue entry. ActorID is empty for anonymous accesses.
type DownloadEvent struct {
	data.BaseModel

	ActorID     string `gorm:"type:TEXT;index:idx_download_events_actor_ts"`
	CatalogueID string `gorm:"type:TEXT;index:idx_download_events_catalogue_ts"`

	// Snapshots taken at event time so the record survives later
	// changes to the referenced entry.
	FileName string `gorm:"type:TEXT;index"`
	FileSize int64

	OriginIP     string `gorm:"type:TEXT"`
	OriginClient string `gorm:"type:TEXT"`
}

// Activity is an append only log entry of something a user or admin did.
type Activity struct {
	data.BaseModel

	Kind         string `gorm:"type:TEXT;index"`
	ActorID      string `gorm:"type:TEXT;index"`
	Details      data.JSONMap
	OriginIP     string `gorm:"type:TEXT"`
	OriginClient string `gorm:"type:TEXT"`
}

// Activity kinds recorded by this service.
const (
	ActivityCatalogueDownload         = "catalogue_download"
	ActivityProductCataloguesDownload = "product_catalogues_download"
	ActivityCatalogueEmailRequest     = "catalogue_email_request"
	ActivityAdminUploadCatalogue      = "admin_upload_catalogue"
	ActivityAdminUpdateCatalogue      = "admin_update_catalogue"
	ActivityAdminDeleteCatalogue      = "admin_delete_catalogue"
	ActivityNewsletterSubscribe       = "newsletter_subscribe"
	ActivityNewsletterUnsubscribe     = "newsletter_unsubscribe"
)

// NewsletterSubscriber holds one newsletter signup. Unsubscribing keeps
// the row and flips Active so a later signup reactivates it.
type NewsletterSubscriber struct {
	data.BaseModel

	Email       string `gorm:"type:TEXT;uniqueIndex"`
	Name        string `gorm:"type:TEXT"`
	CompanyName string `gorm:"type:TEXT"`
	PhoneNumber string `gorm:"type:TEXT"`
	City        string `gorm:"type:TEXT"`
	Source      string `gorm:"type:TEXT"`

	Active           bool   `gorm:"index"`
	UnsubscribeToken string `gorm:"type:TEXT;index"`
	UnsubscribedAt   *time.Time
}

// Notification is an admin panel notification record.
type Notification struct {
	data.BaseModel

	Title    string `gorm:"type:TEXT"`
	Message  string `gorm:"type:TEXT"`
	Kind     string `gorm:"type:TEXT;index"`
	Priority string `gorm:"type:TEXT"`
	Data     data.JSONMap
	ReadAt   *time.Time
}

const (
	NotificationNewsletterSignup  = "newsletter_signup"
	NotificationCatalogueDownload = "catalogue_download"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)
