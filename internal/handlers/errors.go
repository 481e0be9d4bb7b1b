package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "Internal server error"

// JSON writes payload with "error": false unless the payload sets it.
func JSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	if _, ok := payload["error"]; !ok {
		payload["error"] = false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// JSONError sends {"error": true, "message": message}.
func JSONError(w http.ResponseWriter, message string, status int) {
	JSON(w, status, map[string]interface{}{"error": true, "message": message})
}

// JSONValidationError sends the error envelope plus optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"error": true, "message": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	JSON(w, status, out)
}

// readJSON decodes the request body into dst. A body over the size limit
// answers 413; any other decode failure answers 400 with badRequest.
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}, badRequest string) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		JSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	JSONError(w, badRequest, http.StatusBadRequest)
	return false
}

// internalError logs err with the request id and answers 500.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op+" failed",
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
