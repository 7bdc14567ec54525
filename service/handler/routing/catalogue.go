package routing

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/gorilla/mux"
	"github.com/pitabwire/util"
)

// ListCatalogues implements GET /api/catalogue.
// Supports query, category and pagination parameters.
func (s *CatalogueServer) ListCatalogues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parseIntParam(r, "page", 0)
	limit := parseIntParam(r, "limit", 20)

	result, err := s.catalogueService.List(ctx, &business.ListRequest{
		Query:    r.FormValue("query"),
		Category: r.FormValue("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"catalogues": result.Catalogues,
		"page":       result.Page,
		"pages":      result.Pages,
		"total":      result.Total,
		"limit":      result.Limit,
	}, "Catalogues retrieved")
}

// GetCatalogue implements GET /api/catalogue/{catalogueId}.
func (s *CatalogueServer) GetCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	info, err := s.catalogueService.Get(ctx, types.CatalogueID(vars["catalogueId"]))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, info, "Catalogue retrieved")
}

// UploadCatalogue implements POST /api/catalogue/upload.
// Accepts a multipart form with the document under the "file" field.
func (s *CatalogueServer) UploadCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := util.Log(ctx)

	cfg := s.Service.Config().(*config.CatalogueConfig)
	maxSize := int64(cfg.MaxUploadSizeBytes)

	err := r.ParseMultipartForm(maxSize)
	if err != nil {
		logger.WithError(err).Warn("could not parse upload form")
		writeError(w, r, business.ErrNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, business.ErrNoFile)
		return
	}
	defer util.CloseAndLogOnError(ctx, file)

	actor := actorFromRequest(r)

	info, err := s.catalogueService.Upload(ctx, &business.UploadRequest{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		FileSize:     header.Size,
		FileData:     file,
		UploadedBy:   actor.ID,
		Description:  r.FormValue("description"),
		Category:     r.FormValue("category"),
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusCreated, info, "Catalogue uploaded")
}

type updateCatalogueRequest struct {
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Active      *bool   `json:"active"`
}

// UpdateCatalogue implements PUT /api/catalogue/{catalogueId}.
func (s *CatalogueServer) UpdateCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	var body updateCatalogueRequest
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeError(w, r, business.ErrValidationFailed)
		return
	}

	actor := actorFromRequest(r)

	info, err := s.catalogueService.Update(ctx, &business.UpdateRequest{
		ID:           types.CatalogueID(vars["catalogueId"]),
		Description:  body.Description,
		Category:     body.Category,
		Active:       body.Active,
		UpdatedBy:    actor.ID,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, info, "Catalogue updated")
}

// DeleteCatalogue implements DELETE /api/catalogue/{catalogueId}.
// Catalogues are deactivated, records and files are kept.
func (s *CatalogueServer) DeleteCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	actor := actorFromRequest(r)

	err := s.catalogueService.Delete(ctx, &business.DeleteRequest{
		ID:           types.CatalogueID(vars["catalogueId"]),
		DeletedBy:    actor.ID,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, nil, "Catalogue deleted")
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.FormValue(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
