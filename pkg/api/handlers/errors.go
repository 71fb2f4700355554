package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coverkeep/coverkeep/internal/logger"
)

// errorBody is the wire format for all error responses.
//
// Details carries structured validation feedback (per-field messages)
// and is omitted for errors where no safe detail exists. Internal
// failure causes are logged server-side, never echoed to the client.
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeErrorBody(w, status, errorBody{Error: message})
}

// WriteErrorWithDetails writes a JSON error response carrying
// structured details alongside the message.
func WriteErrorWithDetails(w http.ResponseWriter, status int, message string, details any) {
	writeErrorBody(w, status, errorBody{Error: message, Details: details})
}

func writeErrorBody(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// BadRequestWithDetails writes a 400 Bad Request with per-field
// validation messages in the details array.
func BadRequestWithDetails(w http.ResponseWriter, message string, details any) {
	WriteErrorWithDetails(w, http.StatusBadRequest, message, details)
}

// Unauthorized writes a 401 Unauthorized error response.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// Conflict writes a 409 Conflict error response.
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// InternalServerError writes a 500 Internal Server Error response.
func InternalServerError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteJSONOK writes a JSON response with 200 OK status.
func WriteJSONOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteJSONCreated writes a JSON response with 201 Created status.
func WriteJSONCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}
