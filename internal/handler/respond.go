package handler

import (
	"encoding/json"
	"net/http"

	"portfolio-engagement/pkg/errors"
)

// respondJSON writes a JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError writes an AppError in the standard error envelope.
func respondError(w http.ResponseWriter, appErr *errors.AppError) {
	respondJSON(w, appErr.StatusCode, map[string]interface{}{
		"error": appErr.Message,
		"type":  appErr.Type,
	})
}
