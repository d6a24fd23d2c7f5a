package httpapi

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the standard JSON error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: http.StatusText(status), Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) { writeError(w, http.StatusBadRequest, message) }
func writeNotFound(w http.ResponseWriter, message string)   { writeError(w, http.StatusNotFound, message) }
func writeTooManyRequests(w http.ResponseWriter, message string) {
	writeError(w, http.StatusTooManyRequests, message)
}
func writeInternalServerError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message)
}
