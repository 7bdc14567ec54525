package routing

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/pitabwire/util"
	"github.com/pkg/errors"
)

// apiResponse is the JSON envelope every endpoint answers with.
type apiResponse struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Message string  `json:"message"`
	Error   *string `json:"error"`
}

func writeSuccess(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	if data == nil {
		data = map[string]any{}
	}

	writeJSON(w, r, status, &apiResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeError maps service errors to their wire tag and status. Anything
// that is not a ServiceError is an internal error and keeps its detail
// out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *business.ServiceError
	if errors.As(err, &svcErr) {
		tag := svcErr.Tag
		writeJSON(w, r, svcErr.Status, &apiResponse{
			Success: false,
			Data:    map[string]any{},
			Message: svcErr.Message,
			Error:   &tag,
		})
		return
	}

	util.Log(r.Context()).WithError(err).Error("request failed")

	tag := "internal_error"
	writeJSON(w, r, http.StatusInternalServerError, &apiResponse{
		Success: false,
		Data:    map[string]any{},
		Message: "Server error",
		Error:   &tag,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, response *apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(response)
	if err != nil {
		util.Log(r.Context()).WithError(err).Error("Failed to write JSON response")
	}
}

// clientIP extracts the originating address, preferring the first
// forwarded hop when the service runs behind a proxy.
func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
