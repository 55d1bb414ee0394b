package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// maxErrorMessageLen caps error text returned to the extension popup
const maxErrorMessageLen = 200

// successEnvelope and errorEnvelope are the two wire shapes every endpoint
// speaks. The data field is present even when nil so the popup can decode
// responses uniformly.
type successEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func writeEnvelope(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// respondJSON sends a success envelope carrying data
func respondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, successEnvelope{
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// respondJSONError sends an error envelope. Long messages are truncated so
// wrapped backend errors never leak wholesale to the client.
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	if len(message) > maxErrorMessageLen {
		message = message[:maxErrorMessageLen] + "..."
	}
	writeEnvelope(w, status, errorEnvelope{
		Success:   false,
		Error:     errorType,
		Message:   message,
		Timestamp: timestamp(),
	})
}
