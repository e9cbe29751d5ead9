package rest

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// writeJSON marshals the value as JSON and writes it to the response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string, fields ...string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Fields: fields})
}
