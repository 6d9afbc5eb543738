package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	pkglogger "github.com/arcanehq/realmgate/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// SecureLogger returns a middleware for logging HTTP requests with sensitive data redaction
func SecureLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)

			// Search parameters may carry PII-adjacent filters, but the
			// credential-bearing params must never reach the log.
			path := r.URL.Path
			if pkglogger.SanitizeQueryString(r.URL.RawQuery) {
				path += "?[REDACTED]"
			} else if r.URL.RawQuery != "" {
				path += "?" + r.URL.RawQuery
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", path),
				slog.Int("status", wrapped.Status()),
				slog.Int64("bytes", int64(wrapped.BytesWritten())),
				slog.String("duration", time.Since(start).String()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("remote_addr", r.RemoteAddr),
			}

			logger.LogAttrs(context.Background(), slog.LevelInfo, "http_request", attrs...)
		})
	}
}
