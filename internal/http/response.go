package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"accountbook/internal/core"
	applog "accountbook/internal/log"
	"accountbook/internal/services"
	"accountbook/internal/stats"
	"accountbook/internal/storage"
)

// errorBody is the JSON shape of every error reply.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps err to a status and a client-safe message. Unexpected
// errors are logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		applog.LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, r.Method+" "+r.URL.Path, nil)
	}
	writeErrorMessage(w, status, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, stats.ErrUnavailable):
		return http.StatusServiceUnavailable, "unable to load statistics"
	case errors.Is(err, stats.ErrInvalidScope),
		errors.Is(err, stats.ErrInvalidSelector),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrDuplicateEmail),
		errors.Is(err, storage.ErrDuplicateName):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidFlow),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrTitleTooLong),
		errors.Is(err, core.ErrInvalidSettings),
		errors.Is(err, services.ErrInvalidAccount):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="accountbook"`)
	writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
}

func tooManyRequests(w http.ResponseWriter, _ *http.Request) {
	writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
}
