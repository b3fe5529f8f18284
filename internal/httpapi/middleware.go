package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jpillora/requestlog"
)

// AccessLog logs one line per request at debug level.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}

// DevRequestLog wraps h with a colored request log on stdout when enabled.
func DevRequestLog(enabled bool, h http.Handler) http.Handler {
	if !enabled {
		return h
	}
	return requestlog.Wrap(h)
}
