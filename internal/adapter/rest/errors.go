package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	// Notice is shown to the visitor as-is.
	Notice string `json:"notice,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrLoginRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidView):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPropertyNotFound),
		errors.Is(err, domain.ErrIdentityNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotInDetail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, notice string) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		h.logger.Error("HTTP handler failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Error = "internal server error"
	}
	if status == http.StatusUnauthorized {
		resp.Notice = notice
	}
	writeJSON(w, status, resp)
}
