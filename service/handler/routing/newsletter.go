package routing

import (
	"encoding/json"
	"net/http"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/gorilla/mux"
)

type subscribeBody struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	PhoneNumber string `json:"phoneNumber"`
	City        string `json:"city"`
	Source      string `json:"source"`
}

// Subscribe implements POST /api/newsletter/subscribe.
func (s *CatalogueServer) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body subscribeBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeError(w, r, business.ErrValidationFailed)
		return
	}

	result, err := s.newsletterService.Subscribe(ctx, &business.SubscribeRequest{
		Email:        body.Email,
		Name:         body.Name,
		CompanyName:  body.CompanyName,
		PhoneNumber:  body.PhoneNumber,
		City:         body.City,
		Source:       body.Source,
		OriginIP:     clientIP(r),
		OriginClient: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Subscribed to newsletter"
	if result.Reactivated {
		message = "Subscription reactivated"
	}

	writeSuccess(w, r, http.StatusCreated, map[string]any{
		"subscriberId": result.SubscriberID,
	}, message)
}

// Unsubscribe implements GET /api/newsletter/unsubscribe/{token}.
func (s *CatalogueServer) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	err := s.newsletterService.Unsubscribe(ctx, vars["token"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, nil, "Unsubscribed from newsletter")
}
