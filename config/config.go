package config

import (
	"github.com/pitabwire/frame/config"
)

// FileSizeBytes is a file size in bytes
type FileSizeBytes int64

type CatalogueConfig struct {
	config.ConfigurationDefault

	StorageProvider string `envDefault:"LOCAL" env:"STORAGE_PROVIDER"`

	ProviderGcsPrivateBucket  string `envDefault:"" env:"GCS_PRIVATE_BUCKET"`
	ProviderGcsPublicBucket   string `envDefault:"" env:"GCS_PUBLIC_BUCKET"`
	ProviderS3PrivateBucket   string `envDefault:"" env:"S3_PRIVATE_BUCKET"`
	ProviderS3PublicBucket    string `envDefault:"" env:"S3_PUBLIC_BUCKET"`
	ProviderS3Endpoint        string `envDefault:"" env:"S3_ENDPOINT"`
	ProviderS3Region          string `envDefault:"" env:"S3_REGION"`
	ProviderS3AccessKeySecret string `envDefault:"" env:"S3_ACCESS_KEY_SECRET"`
	ProviderS3SessionToken    string `envDefault:"" env:"S3_SESSION_TOKEN"`
	ProviderS3AccessKeyId     string `envDefault:"" env:"S3_ACCESS_KEY_ID"`

	QueueEmailSendURL  string `envDefault:"mem://email_send" env:"QUEUE_EMAIL_SEND_URL"`
	QueueEmailSendName string `envDefault:"email_send" env:"QUEUE_EMAIL_SEND_NAME"`

	SmtpHost     string `envDefault:"smtp.gmail.com" env:"SMTP_HOST"`
	SmtpPort     int    `envDefault:"465" env:"SMTP_PORT"`
	SmtpUsername string `envDefault:"" env:"SMTP_USERNAME"`
	SmtpPassword string `envDefault:"" env:"SMTP_PASSWORD"`
	EmailFrom    string `envDefault:"" env:"EMAIL_FROM"`

	// Comma separated list of operator addresses notified on downloads
	// and email requests.
	OperatorEmails string `envDefault:"" env:"OPERATOR_EMAILS"`

	// Optional path to a JSON file overriding the compiled product to
	// catalogue file mapping.
	ProductMapPath string `envDefault:"" env:"PRODUCT_MAP_PATH"`

	// The maximum catalogue upload size in bytes. 0 means unlimited.
	MaxUploadSizeBytes FileSizeBytes `envDefault:"52428800" env:"MAX_UPLOAD_SIZE_BYTES"`

	// The trailing window within which the legacy batch tracking path
	// treats repeat submissions as duplicates, in hours.
	TrackingDedupeWindowHours int `envDefault:"24" env:"TRACKING_DEDUPE_WINDOW_HOURS"`
}
