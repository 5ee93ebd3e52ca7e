// Package respond centralizes the JSON response shapes shared by all
// handlers: plain payloads, `{"message": ...}` errors, and the 422 payload
// carrying field-keyed validation messages.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mpereira/invoicer/internal/validate"
)

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// Failure reports a server-side failure with the underlying cause attached
// for diagnostics.
func Failure(w http.ResponseWriter, message string, err error) {
	JSON(w, http.StatusInternalServerError, map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}

func ValidationError(w http.ResponseWriter, vErr *validate.Error) {
	JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "validation failed",
		"errors":  vErr.Fields,
	})
}
