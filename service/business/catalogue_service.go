package business

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"time"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/antinvestor/service-catalogue/service/mailer"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/provider"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame"
	"github.com/pitabwire/util"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type catalogueService struct {
	cfg *config.CatalogueConfig

	catalogueRepo repository.CatalogueRepository

	resolver   *Resolver
	tracker    *Tracker
	dispatcher *Dispatcher
	transfer   *Transfer
	mailer     mailer.Mailer
	provider   provider.Provider
}

func NewCatalogueService(
	service *frame.Service,
	cfg *config.CatalogueConfig,
	products *ProductMap,
	storageProvider provider.Provider,
	emailSender mailer.Mailer,
) CatalogueService {
	catalogueRepo := repository.NewCatalogueRepository(service)
	downloadRepo := repository.NewDownloadRepository(service)

	dedupeWindow := time.Duration(cfg.TrackingDedupeWindowHours) * time.Hour

	return &catalogueService{
		cfg:           cfg,
		catalogueRepo: catalogueRepo,
		resolver:      NewResolver(catalogueRepo, products),
		tracker:       NewTracker(catalogueRepo, downloadRepo, dedupeWindow),
		dispatcher:    NewDispatcher(service, cfg),
		transfer:      NewTransfer(storageProvider),
		mailer:        emailSender,
		provider:      storageProvider,
	}
}

func (cs *catalogueService) List(ctx context.Context, req *ListRequest) (*ListResult, error) {
	page := req.Page
	if page < 0 {
		page = 0
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, total, err := cs.catalogueRepo.List(ctx, req.Query, req.Category, page, limit)
	if err != nil {
		return nil, err
	}

	catalogues := make([]*types.CatalogueInfo, 0, len(entries))
	for _, entry := range entries {
		catalogues = append(catalogues, entry.ToApi())
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return &ListResult{
		Catalogues: catalogues,
		Page:       page,
		Pages:      pages,
		Total:      total,
		Limit:      limit,
	}, nil
}

func (cs *catalogueService) Get(ctx context.Context, id types.CatalogueID) (*types.CatalogueInfo, error) {
	entry, err := cs.resolver.ResolveCatalogue(ctx, id)
	if err != nil {
		return nil, err
	}

	return entry.ToApi(), nil
}

func (cs *catalogueService) Upload(ctx context.Context, req *UploadRequest) (*types.CatalogueInfo, error) {
	if req.FileData == nil {
		return nil, ErrNoFile
	}

	// Catalogues are PDF documents only.
	if req.MimeType != "application/pdf" {
		return nil, ErrValidationFailed
	}

	maxSize := int64(cs.cfg.MaxUploadSizeBytes)
	if maxSize > 0 && req.FileSize > maxSize {
		return nil, ErrValidationFailed
	}

	entry := &models.CatalogueEntry{
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		UploadedBy:   string(req.UploadedBy),
		Active:       true,
		Description:  req.Description,
		Category:     req.Category,
	}
	entry.GenID(ctx)

	ext := filepath.Ext(req.OriginalName)
	entry.FileName = entry.GetID() + ext
	entry.FilePath = "catalogues/" + entry.FileName

	reader := req.FileData
	if maxSize > 0 {
		reader = io.LimitReader(reader, maxSize+1)
	}

	bucket := cs.provider.GetBucket(false)
	written, err := cs.provider.UploadFile(ctx, bucket, types.Path(entry.FilePath), reader)
	if err != nil {
		return nil, errors.Wrap(err, "could not store catalogue file")
	}

	if maxSize > 0 && written > maxSize {
		cs.removeStoredFile(ctx, bucket, types.Path(entry.FilePath))
		return nil, ErrValidationFailed
	}
	entry.FileSize = written

	err = cs.catalogueRepo.Save(ctx, entry)
	if err != nil {
		cs.removeStoredFile(ctx, bucket, types.Path(entry.FilePath))
		return nil, errors.Wrap(err, "could not store catalogue metadata")
	}

	cs.dispatcher.LogActivity(ctx, models.ActivityAdminUploadCatalogue, req.UploadedBy,
		map[string]any{
			"fileName": entry.OriginalName,
			"fileSize": entry.FileSize,
		}, req.OriginIP, req.OriginClient)

	return entry.ToApi(), nil
}

// removeStoredFile cleans up a blob whose upload was rejected, so a
// failed Upload leaves neither a registry row nor an orphan object.
func (cs *catalogueService) removeStoredFile(ctx context.Context, bucket string, path types.Path) {
	err := cs.provider.DeleteFile(ctx, bucket, path)
	if err != nil {
		util.Log(ctx).WithError(err).
			WithField("path", string(path)).
			Warn("could not remove rejected upload from storage")
	}
}

func (cs *catalogueService) Update(ctx context.Context, req *UpdateRequest) (*types.CatalogueInfo, error) {
	entry, err := cs.catalogueRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogueNotFound
		}
		return nil, err
	}

	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Active != nil {
		entry.Active = *req.Active
	}

	err = cs.catalogueRepo.Save(ctx, entry)
	if err != nil {
		return nil, err
	}

	cs.dispatcher.LogActivity(ctx, models.ActivityAdminUpdateCatalogue, req.UpdatedBy,
		map[string]any{
			"catalogueId": entry.GetID(),
		}, req.OriginIP, req.OriginClient)

	return entry.ToApi(), nil
}

func (cs *catalogueService) Delete(ctx context.Context, req *DeleteRequest) error {
	entry, err := cs.catalogueRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCatalogueNotFound
		}
		return err
	}

	err = cs.catalogueRepo.Deactivate(ctx, types.CatalogueID(entry.GetID()))
	if err != nil {
		return err
	}

	cs.dispatcher.LogActivity(ctx, models.ActivityAdminDeleteCatalogue, req.DeletedBy,
		map[string]any{
			"fileName": entry.OriginalName,
		}, req.OriginIP, req.OriginClient)

	return nil
}

// Download resolves, opens and tracks one direct catalogue download.
// Tracking failures never abort the transfer; the audit trail loses a
// row before a user loses a download.
func (cs *catalogueService) Download(ctx context.Context, req *DownloadRequest) (*DownloadResult, error) {
	entry, err := cs.resolver.ResolveCatalogue(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	result, err := cs.transfer.Stream(ctx, entry)
	if err != nil {
		return nil, err
	}

	_, err = cs.tracker.Record(ctx, req.ActorID, entry, req.OriginIP, req.OriginClient)
	if err != nil {
		util.Log(ctx).WithError(err).
			WithField("catalogueId", entry.GetID()).
			Warn("could not record download event, continuing with transfer")
	}

	cs.dispatcher.CatalogueDownloaded(ctx, req.ActorID, entry, req.OriginIP, req.OriginClient)

	return result, nil
}

// ProductLinks resolves a product to per file download links. Each
// resolved entry is tracked as an access; returning links still counts
// as handing out the bundle.
func (cs *catalogueService) ProductLinks(ctx context.Context, req *ProductDownloadRequest) (*ProductDownloadResult, error) {
	canonical, entries, err := cs.resolver.ResolveProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	links := make([]types.DownloadLink, 0, len(entries))
	for _, entry := range entries {
		_, trackErr := cs.tracker.Record(ctx, req.ActorID, entry, req.OriginIP, req.OriginClient)
		if trackErr != nil {
			util.Log(ctx).WithError(trackErr).
				WithField("catalogueId", entry.GetID()).
				Warn("could not record product download event")
		}

		links = append(links, types.DownloadLink{
			CatalogueID:  types.CatalogueID(entry.GetID()),
			OriginalName: entry.OriginalName,
			URL:          fmt.Sprintf("/api/catalogue/%s/download", entry.GetID()),
		})
	}

	cs.dispatcher.ProductDownloaded(ctx, req.ActorID, canonical, entries, req.OriginIP, req.OriginClient)

	return &ProductDownloadResult{
		ProductID: canonical,
		Links:     links,
	}, nil
}

// RequestEmail resolves a product and sends its catalogues as
// attachments to the destination address.
func (cs *catalogueService) RequestEmail(ctx context.Context, req *EmailRequest) (*EmailResult, error) {
	if !emailPattern.MatchString(req.Destination) {
		return nil, ErrValidationFailed
	}

	canonical, entries, err := cs.resolver.ResolveProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	attachments, err := cs.transfer.FetchAttachments(ctx, entries)
	if err != nil {
		return nil, err
	}

	message := &mailer.EmailMessage{
		To:          []string{req.Destination},
		Subject:     "Your requested catalogues",
		Body:        fmt.Sprintf("Please find attached the catalogues for %s.", canonical),
		Attachments: attachments,
	}

	err = cs.mailer.Send(ctx, message)
	if err != nil {
		return nil, errors.Wrap(err, "could not send catalogue email")
	}

	cs.dispatcher.EmailRequested(ctx, req.ActorID, canonical, req.Destination,
		len(attachments), req.OriginIP, req.OriginClient)

	return &EmailResult{
		ProductID: canonical,
		Attached:  len(attachments),
	}, nil
}

func (cs *catalogueService) TrackBatch(ctx context.Context, req *TrackBatchRequest) (*TrackBatchResult, error) {
	recorded, err := cs.tracker.RecordBatch(ctx, req.ActorID, req.Items, req.OriginIP, req.OriginClient)
	if err != nil {
		return nil, err
	}

	return &TrackBatchResult{
		TrackedCatalogues: recorded,
		ProductID:         req.ProductID,
		ProductTitle:      req.ProductTitle,
	}, nil
}
