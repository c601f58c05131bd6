package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/shared"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error onto the HTTP status its kind implies.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrNoPlayableStream):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes {"error": msg}. fallback is used when err carries no
// client-facing message. The raw error only reaches clients in development.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := StatusFor(err)
	body := errorBody{Error: catalog.Message(err, fallback)}
	if s.cfg.IsDevelopment() {
		body.Details = err.Error()
	}

	logger := s.logger.With("path", r.URL.Path, "status", status, "request_id", RequestID(r.Context()))
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "error", err)
	}
	writeJSON(w, status, body)
}
