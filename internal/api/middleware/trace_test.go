package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sketchforge/sketchforge-api/internal/api/shared"
	"github.com/sketchforge/sketchforge-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var seenTraceID string
	var loggerAttached bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		loggerAttached = logger.FromContext(r.Context()) != logger.FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	TraceMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seenTraceID)
	assert.Len(t, seenTraceID, shared.TraceIDLength*2)
	assert.Equal(t, seenTraceID, rec.Header().Get("X-Trace-ID"),
		"the trace ID the handler saw must match the one echoed to the client")
	assert.True(t, loggerAttached, "request context should carry a request-scoped logger")

	rec2 := httptest.NewRecorder()
	TraceMiddleware(inner).ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEqual(t, rec.Header().Get("X-Trace-ID"), rec2.Header().Get("X-Trace-ID"),
		"trace IDs are per request")
}
