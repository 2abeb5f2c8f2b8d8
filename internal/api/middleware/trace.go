// Package middleware contains HTTP middleware applied across the router.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/sketchforge/sketchforge-api/internal/api/shared"
	"github.com/sketchforge/sketchforge-api/internal/platform/logger"
)

// TraceMiddleware assigns each request a trace ID, echoes it back in the
// X-Trace-ID response header, and stores a trace-annotated logger in the
// request context so downstream handlers correlate their logs with the
// response the client saw.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		w.Header().Set("X-Trace-ID", traceID)

		log := logger.FromContext(ctx).With(slog.String("trace_id", traceID))
		ctx = logger.WithContext(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
