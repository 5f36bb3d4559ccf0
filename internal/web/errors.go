package web

// errors.go provides unified error responses for the API.
//
// Handlers call respondError, which logs the technical error with the
// request ID and returns the mapped user-facing message as JSON.

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/annotatehq/turkread/internal/core"
	"github.com/annotatehq/turkread/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// respondError logs err and writes the mapped user message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", chimw.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  userMsg.Message,
		Action: userMsg.Action,
		Code:   userMsg.Code,
	})
}

// statusForError picks an HTTP status for an ingest error. It keys off
// the same classification respondError reports, so every client-caused
// failure surfaces as a 4xx.
func statusForError(err error) int {
	switch core.MapError(err).Code {
	case "VAL001":
		return http.StatusUnprocessableEntity
	case "FILE001", "FILE002":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
