package routing

import (
	"encoding/json"
	"net/http"

	"github.com/antinvestor/service-catalogue/service/business"
)

type requestEmailBody struct {
	ProductID string `json:"productId"`
	Email     string `json:"email"`
}

// RequestEmail implements POST /api/catalogue/request-email.
// The product's catalogues are sent as attachments to the given
// address; delivery happens before the response, failures surface.
func (s *CatalogueServer) RequestEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body requestEmailBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeError(w, r, business.ErrValidationFailed)
		return
	}

	actor := actorFromRequest(r)

	result, err := s.catalogueService.RequestEmail(ctx, &business.EmailRequest{
		ProductID:    body.ProductID,
		Destination:  body.Email,
		ActorID:      actor.ID,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"productId": result.ProductID,
		"attached":  result.Attached,
	}, "Catalogues sent by email")
}
