package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"curve/internal/ctxlog"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	content, err := json.Marshal(v)
	if err != nil {
		ctxlog.Get(r.Context()).Error("failed to marshal response", "error", err)
		status = http.StatusInternalServerError
		content = []byte(`{"error":"internal server error"}`)
	}
	content = append(content, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(status)
	if _, err := w.Write(content); err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorBody{Error: msg})
}

func statusHandler(status int) http.Handler {
	msg := http.StatusText(status)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, status, msg)
	})
}

func notFoundHandler() http.Handler {
	return statusHandler(http.StatusNotFound)
}

func tooManyRequestsHandler() http.Handler {
	return statusHandler(http.StatusTooManyRequests)
}

func internalServerErrorHandler() http.Handler {
	return statusHandler(http.StatusInternalServerError)
}
