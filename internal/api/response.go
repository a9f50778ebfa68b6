package api

import (
	"encoding/json"
	"net/http"

	"roombook/internal/domain"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorMessage(w http.ResponseWriter, statusCode int, kind domain.Kind, message string) {
	writeJSON(w, statusCode, ErrorResponse{Code: string(kind), Message: message})
}

// writeError maps err to its status code. Untyped errors become a bare 500.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	writeErrorMessage(w, statusFor(kind), kind, domain.MessageOf(err))
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
