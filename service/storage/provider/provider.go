package provider

import (
	"context"
	"io"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/antinvestor/service-catalogue/service/storage/provider/gcs"
	"github.com/antinvestor/service-catalogue/service/storage/provider/local"
	"github.com/antinvestor/service-catalogue/service/storage/provider/s3"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame"
	"gocloud.dev/blob"
)

type Provider interface {
	Name() string
	PrivateBucket() string
	PublicBucket() string
	GetBucket(isPublic bool) string
	Setup(ctx context.Context) error
	Init(ctx context.Context, bucketName string) (*blob.Bucket, error)
	Exists(ctx context.Context, bucket string, path types.Path) (bool, error)
	UploadFile(ctx context.Context, bucket string, path types.Path, contents io.Reader) (int64, error)
	DownloadFile(ctx context.Context, bucket string, path types.Path) (io.Reader, func(), error)
	DeleteFile(ctx context.Context, bucket string, path types.Path) error
}

func GetStorageProvider(ctx context.Context, cfg *config.CatalogueConfig) (Provider, error) {
	var p Provider
	switch cfg.StorageProvider {
	case "GCS":
		p = gcs.NewProvider("GCS", cfg.ProviderGcsPrivateBucket, cfg.ProviderGcsPublicBucket)

	case "S3":
		p = s3.NewProvider("S3", cfg.ProviderS3PrivateBucket, cfg.ProviderS3PublicBucket,
			cfg.ProviderS3Endpoint, cfg.ProviderS3Region, cfg.ProviderS3AccessKeySecret,
			cfg.ProviderS3SessionToken, cfg.ProviderS3AccessKeyId)

	default:
		p = local.NewProvider("LOCAL",
			frame.GetEnv("LOCAL_PRIVATE_DIRECTORY", "/tmp/catalogues/private"),
			frame.GetEnv("LOCAL_PUBLIC_DIRECTORY", "/tmp/catalogues/public"))
	}

	err := p.Setup(ctx)
	return p, err
}
