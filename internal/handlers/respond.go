package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError is the single error boundary: every failure leaves the
// API as {"success":false,"error":...} with the matching status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
