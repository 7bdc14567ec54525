package local

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/util"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

// BucketOpener opens a named bucket. Providers that wrap ProviderLocal
// install their own opener so the shared transfer methods talk to the
// right backend.
type BucketOpener func(ctx context.Context, bucketName string) (*blob.Bucket, error)

type ProviderLocal struct {
	name          string
	privateBucket string
	publicBucket  string

	opener BucketOpener
}

func (provider *ProviderLocal) Name() string {
	return provider.name
}

func (provider *ProviderLocal) PublicBucket() string {
	return provider.publicBucket
}

func (provider *ProviderLocal) PrivateBucket() string {
	return provider.privateBucket
}

func (provider *ProviderLocal) GetBucket(isPublic bool) string {

	if isPublic {
		return provider.PublicBucket()
	}
	return provider.PrivateBucket()
}

func (provider *ProviderLocal) SetOpener(opener BucketOpener) {
	provider.opener = opener
}

func (provider *ProviderLocal) Setup(_ context.Context) error {

	err := os.MkdirAll(provider.privateBucket, 0755)
	if err != nil {
		return err
	}

	return os.MkdirAll(provider.publicBucket, 0755)
}

func (provider *ProviderLocal) Init(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	if provider.opener != nil {
		return provider.opener(ctx, bucketName)
	}
	return blob.OpenBucket(ctx, fmt.Sprintf("file://%s", bucketName))
}

func (provider *ProviderLocal) Exists(ctx context.Context, bucketName string, path types.Path) (bool, error) {

	bucket, err := provider.Init(ctx, bucketName)
	if err != nil {
		return false, err
	}
	defer util.CloseAndLogOnError(ctx, bucket)

	return bucket.Exists(ctx, string(path))
}

func (provider *ProviderLocal) UploadFile(ctx context.Context, bucketName string, path types.Path, contents io.Reader) (int64, error) {

	bucket, err := provider.Init(ctx, bucketName)
	if err != nil {
		return 0, err
	}
	defer util.CloseAndLogOnError(ctx, bucket)

	writeCtx, cancelWrite := context.WithCancel(ctx)
	defer cancelWrite()

	w, err := bucket.NewWriter(writeCtx, string(path), nil)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(w, contents)
	if err != nil {
		cancelWrite()
		util.CloseAndLogOnError(ctx, w)
		return written, err
	}

	err = w.Close()
	if err != nil {
		return written, err
	}

	return written, nil
}

func (provider *ProviderLocal) DownloadFile(ctx context.Context, bucketName string, path types.Path) (io.Reader, func(), error) {

	bucket, err := provider.Init(ctx, bucketName)
	if err != nil {
		return nil, nil, err
	}

	r, err := bucket.NewReader(ctx, string(path), nil)
	if err != nil {
		util.CloseAndLogOnError(ctx, bucket)
		return nil, nil, err
	}

	return r, func() {
		util.CloseAndLogOnError(ctx, r) // Ignore errors on cleanup
		util.CloseAndLogOnError(ctx, bucket)
	}, nil
}

func (provider *ProviderLocal) DeleteFile(ctx context.Context, bucketName string, path types.Path) error {

	bucket, err := provider.Init(ctx, bucketName)
	if err != nil {
		return err
	}
	defer util.CloseAndLogOnError(ctx, bucket)

	return bucket.Delete(ctx, string(path))
}

func NewProvider(name, privateBucket, publicBucket string) *ProviderLocal {
	return &ProviderLocal{
		name:          name,
		privateBucket: privateBucket,
		publicBucket:  publicBucket,
	}
}
