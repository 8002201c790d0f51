package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/buildline/rfitrack/internal/service"
)

// maxJSONBody bounds request bodies of the JSON endpoints.
const maxJSONBody = 1 << 20

type errorBody struct {
	Error       string `json:"error"`
	Remediation string `json:"remediation,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeJSON reads one JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// respondError maps service errors onto status codes. Anything unrecognized
// is logged and reported as 500 without details.
func respondError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var conflict *service.DependencyConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{
			Error:       conflict.Error(),
			Remediation: conflict.Remediation,
		})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidReassignTarget), errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	default:
		slog.Error("failed to "+action, "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

type updatePayload interface {
	IsEmpty() bool
}

// decodeUpdate decodes a PATCH body and rejects payloads that change nothing.
func decodeUpdate[T updatePayload](w http.ResponseWriter, r *http.Request) (T, bool) {
	var update T
	err := decodeJSON(w, r, &update)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return update, false
	}
	if update.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return update, false
	}
	return update, true
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
