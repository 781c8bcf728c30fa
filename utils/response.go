package utils

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSONResponse writes v as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess wraps data in a success envelope.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSONResponse(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteFailure writes a failure envelope carrying reason.
func WriteFailure(w http.ResponseWriter, status int, reason string) {
	WriteJSONResponse(w, status, Envelope{Success: false, Error: reason})
}
