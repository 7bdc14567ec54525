package business

import (
	"context"
	"io"

	"github.com/antinvestor/service-catalogue/service/mailer"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/provider"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/util"
	"github.com/pkg/errors"
)

// DownloadResult carries an open file stream and the response headers
// belonging to it. Callers own FileData and must close it.
type DownloadResult struct {
	FileData      io.ReadCloser
	ContentType   types.ContentType
	ContentLength types.FileSizeBytes
	Filename      types.Filename
}

// Transfer moves catalogue binaries out of the storage backend, either
// as a response stream or as email attachments.
type Transfer struct {
	provider provider.Provider
}

func NewTransfer(p provider.Provider) *Transfer {
	return &Transfer{provider: p}
}

// Stream opens the entry's underlying file for a streamed response. The
// registry and the bucket can diverge; a missing file resolves to
// ErrFileNotFound, not an internal error.
func (t *Transfer) Stream(ctx context.Context, entry *models.CatalogueEntry) (*DownloadResult, error) {
	bucket := t.provider.GetBucket(false)

	exists, err := t.provider.Exists(ctx, bucket, types.Path(entry.FilePath))
	if err != nil {
		return nil, errors.Wrap(err, "could not check catalogue file existence")
	}
	if !exists {
		return nil, ErrFileNotFound
	}

	reader, cleanup, err := t.provider.DownloadFile(ctx, bucket, types.Path(entry.FilePath))
	if err != nil {
		return nil, errors.Wrap(err, "could not open catalogue file")
	}

	contentType := entry.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &DownloadResult{
		FileData:      &readCloserWithCleanup{Reader: reader, cleanup: cleanup},
		ContentType:   types.ContentType(contentType),
		ContentLength: types.FileSizeBytes(entry.FileSize),
		Filename:      types.Filename(entry.OriginalName),
	}, nil
}

// FetchAttachments loads the entries whose underlying file still exists
// into attachment buffers, skipping the rest. An empty result after
// filtering is an error distinct from an unknown product.
func (t *Transfer) FetchAttachments(ctx context.Context, entries []*models.CatalogueEntry) ([]mailer.Attachment, error) {
	bucket := t.provider.GetBucket(false)

	attachments := make([]mailer.Attachment, 0, len(entries))
	for _, entry := range entries {
		exists, err := t.provider.Exists(ctx, bucket, types.Path(entry.FilePath))
		if err != nil {
			return nil, errors.Wrap(err, "could not check catalogue file existence")
		}
		if !exists {
			util.Log(ctx).
				With("catalogueId", entry.GetID()).
				With("filePath", entry.FilePath).
				Warn("catalogue entry has no file in storage, skipping attachment")
			continue
		}

		reader, cleanup, err := t.provider.DownloadFile(ctx, bucket, types.Path(entry.FilePath))
		if err != nil {
			return nil, errors.Wrap(err, "could not open catalogue file")
		}

		content, err := io.ReadAll(reader)
		cleanup()
		if err != nil {
			return nil, errors.Wrapf(err, "could not read catalogue file %s", entry.OriginalName)
		}

		attachments = append(attachments, mailer.Attachment{
			Name:     entry.OriginalName,
			MimeType: entry.MimeType,
			Content:  content,
		})
	}

	if len(attachments) == 0 {
		return nil, ErrNoCataloguesFound
	}

	return attachments, nil
}

type readCloserWithCleanup struct {
	io.Reader
	cleanup func()
}

func (rc *readCloserWithCleanup) Close() error {
	rc.cleanup()
	return nil
}
