package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/cfgchain"
	"github.com/sagarc03/cfgchain/profile"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	switch {
	case errors.Is(err, cfgchain.ErrConversion):
		WriteError(w, http.StatusUnprocessableEntity, "conversion_failed", err.Error())
	case errors.Is(err, profile.ErrProfileNotFound):
		WriteError(w, http.StatusUnprocessableEntity, "profile_not_found", err.Error())
	case errors.Is(err, cfgchain.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_name", "Invalid variable name")
	case errors.Is(err, ErrInvalidBody):
		WriteError(w, http.StatusBadRequest, "invalid_body", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
