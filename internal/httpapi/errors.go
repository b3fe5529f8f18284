package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	codeBadRequest = "bad_request"
	codeInternal   = "internal"
)

// ErrorResponse is the body of every non-2xx ops response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON sends v uncached; every ops payload is a live snapshot.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResponse{Code: errCode, Message: msg})
}

// writeInternal logs err and answers 500 without leaking it to the client.
func writeInternal(w http.ResponseWriter, log *slog.Logger, what string, err error) {
	if log == nil {
		log = slog.Default()
	}
	log.Error(what+" failed", "err", err)
	writeError(w, http.StatusInternalServerError, codeInternal, "failed to load "+what)
}
