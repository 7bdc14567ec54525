package business

import (
	"context"
	"io"

	"github.com/antinvestor/service-catalogue/service/types"
)

// ListRequest asks for a page of active catalogue entries.
type ListRequest struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

type ListResult struct {
	Catalogues []*types.CatalogueInfo
	Page       int
	Pages      int
	Total      int64
	Limit      int
}

// UploadRequest registers a new catalogue document.
type UploadRequest struct {
	OriginalName string
	MimeType     string
	FileSize     int64
	FileData     io.Reader
	UploadedBy   types.ActorID
	Description  string
	Category     string
	OriginIP     string
	OriginClient string
}

// UpdateRequest mutates the editable attributes of an entry. Nil fields
// are left untouched.
type UpdateRequest struct {
	ID           types.CatalogueID
	Description  *string
	Category     *string
	Active       *bool
	UpdatedBy    types.ActorID
	OriginIP     string
	OriginClient string
}

// DeleteRequest soft deletes an entry.
type DeleteRequest struct {
	ID           types.CatalogueID
	DeletedBy    types.ActorID
	OriginIP     string
	OriginClient string
}

// DownloadRequest asks for a tracked, streamed download of one entry.
type DownloadRequest struct {
	ID           types.CatalogueID
	ActorID      types.ActorID
	OriginIP     string
	OriginClient string
}

// ProductDownloadRequest resolves a product identifier to download
// links for its catalogues.
type ProductDownloadRequest struct {
	ProductID    string
	ActorID      types.ActorID
	OriginIP     string
	OriginClient string
}

type ProductDownloadResult struct {
	ProductID string
	Links     []types.DownloadLink
}

// EmailRequest asks for the product's catalogues to be emailed to the
// given destination address.
type EmailRequest struct {
	ProductID    string
	Destination  string
	ActorID      types.ActorID
	OriginIP     string
	OriginClient string
}

type EmailResult struct {
	ProductID string
	Attached  int
}

// TrackBatchRequest is the legacy bulk tracking submission.
type TrackBatchRequest struct {
	ProductID    string
	ProductTitle string
	Items        []TrackedItem
	ActorID      types.ActorID
	OriginIP     string
	OriginClient string
}

type TrackBatchResult struct {
	TrackedCatalogues int
	ProductID         string
	ProductTitle      string
}

// CatalogueService is the single entry point the HTTP handlers call.
type CatalogueService interface {
	List(ctx context.Context, req *ListRequest) (*ListResult, error)
	Get(ctx context.Context, id types.CatalogueID) (*types.CatalogueInfo, error)
	Upload(ctx context.Context, req *UploadRequest) (*types.CatalogueInfo, error)
	Update(ctx context.Context, req *UpdateRequest) (*types.CatalogueInfo, error)
	Delete(ctx context.Context, req *DeleteRequest) error
	Download(ctx context.Context, req *DownloadRequest) (*DownloadResult, error)
	ProductLinks(ctx context.Context, req *ProductDownloadRequest) (*ProductDownloadResult, error)
	RequestEmail(ctx context.Context, req *EmailRequest) (*EmailResult, error)
	TrackBatch(ctx context.Context, req *TrackBatchRequest) (*TrackBatchResult, error)
}
