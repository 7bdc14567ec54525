package routing

import (
	"encoding/json"
	"net/http"

	"github.com/antinvestor/service-catalogue/service/business"
)

// trackBatchBody mirrors the legacy submission shape still sent by
// older frontend builds.
type trackBatchBody struct {
	ProductID     string                 `json:"productId"`
	ProductTitle  string                 `json:"productTitle"`
	CatalogueURLs []business.TrackedItem `json:"catalogueUrls"`
	DownloadedAt  string                 `json:"downloadedAt"`
}

// TrackBatch implements POST /api/catalogue/download, the legacy bulk
// tracking endpoint. Repeat submissions inside the dedupe window are
// silently dropped; the response reports what was newly recorded.
func (s *CatalogueServer) TrackBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body trackBatchBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeError(w, r, business.ErrValidationFailed)
		return
	}

	if body.ProductID == "" || len(body.CatalogueURLs) == 0 {
		writeError(w, r, business.ErrValidationFailed)
		return
	}

	actor := actorFromRequest(r)

	result, err := s.catalogueService.TrackBatch(ctx, &business.TrackBatchRequest{
		ProductID:    body.ProductID,
		ProductTitle: body.ProductTitle,
		Items:        body.CatalogueURLs,
		ActorID:      actor.ID,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"trackedCatalogues": result.TrackedCatalogues,
		"productId":         result.ProductID,
		"productTitle":      result.ProductTitle,
	}, "Catalogue downloads tracked")
}
