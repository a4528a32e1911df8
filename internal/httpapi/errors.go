package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"remotejobs-engine/internal/match"
	"remotejobs-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr maps service errors onto the error envelope.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, match.ErrInvalidInput):
		WriteError(w, r, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads the body
		w.WriteHeader(499)
	default:
		log.Printf("level=error msg=\"request failed\" request_id=%s path=%s err=%v", RequestIDFrom(r.Context()), r.URL.Path, err)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
