package routing

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/gorilla/mux"
	"github.com/pitabwire/util"
)

// DownloadCatalogue implements GET /api/catalogue/{catalogueId}/download.
// The file is streamed straight from the storage backend; a tracking or
// audit failure never turns into a failed download.
func (s *CatalogueServer) DownloadCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	actor := actorFromRequest(r)

	result, err := s.catalogueService.Download(ctx, &business.DownloadRequest{
		ID:           types.CatalogueID(vars["catalogueId"]),
		ActorID:      actor.ID,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer util.CloseAndLogOnError(ctx, result.FileData)

	w.Header().Set("Content-Type", string(result.ContentType))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(result.Filename)))
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(int64(result.ContentLength), 10))
	}

	// Headers are out, the status line is committed. Copy failures past
	// this point can only be logged.
	_, err = io.Copy(w, result.FileData)
	if err != nil {
		util.Log(ctx).WithError(err).
			WithField("catalogueId", vars["catalogueId"]).
			Warn("catalogue stream interrupted")
	}
}

// DownloadProduct implements GET /api/catalogue/product/{productId}/download.
// Resolves the product to its catalogue set and answers with per-file
// download links rather than a combined archive.
func (s *CatalogueServer) DownloadProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	actor := actorFromRequest(r)

	result, err := s.catalogueService.ProductLinks(ctx, &business.ProductDownloadRequest{
		ProductID:    vars["productId"],
		ActorID:      actor.ID,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"productId":  result.ProductID,
		"catalogues": result.Links,
	}, "Product catalogues resolved")
}
