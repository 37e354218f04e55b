package api

import (
	"encoding/json"
	"net/http"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/logger"
)

// envelope is the uniform response shape of every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Success: true,
		Message: message,
		Data:    data,
	}); err != nil {
		logger.Log.Error("failed to write response", "error", err.Error())
	}
}

// writeError maps the error taxonomy to HTTP statuses: validation and
// duplicates are the caller's fault, missing references are 404,
// anything else is a dependency failure with the underlying message
// attached for diagnostics.
func writeError(w http.ResponseWriter, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err) || apperr.IsDuplicateKey(err):
		status = http.StatusBadRequest
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(envelope{
		Success: false,
		Message: message,
		Error:   err.Error(),
	}); encodeErr != nil {
		logger.Log.Error("failed to write error response", "error", encodeErr.Error())
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
