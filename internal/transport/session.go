package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs each request with its MCP session, if any, at debug level.
// Server errors are logged at warn.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if sessionID := r.Header.Get("Mcp-Session-Id"); sessionID != "" {
				attrs = append(attrs, "session_id", sessionID)
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn("http request failed", attrs...)
				return
			}
			logger.Debug("http request", attrs...)
		})
	}
}
