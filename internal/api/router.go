package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/sketchforge/sketchforge-api/internal/api/middleware"
)

// RouterDeps bundles the handlers the router mounts. The caller owns
// construction so the router stays free of service wiring.
type RouterDeps struct {
	Tasks  *TaskHandler
	Stream *StreamHandler
	Mesh   *MeshHandler
	Parse  *ParseHandler
	Logger *slog.Logger
}

// NewRouter creates and configures the application router with all routes
// and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Task dispatch and status
		r.Post("/queue/{type}", deps.Tasks.QueueTask)
		r.Get("/task/{taskID}", deps.Tasks.GetTaskStatus)

		// Server-push event delivery
		r.Get("/subscribe/{taskID}", deps.Stream.Subscribe)

		// Mesh submission and polling-loop delivery
		r.Post("/mesh/task", deps.Mesh.CreateMeshTask)
		r.Get("/mesh/task/ws/{taskID}", deps.Mesh.StatusSocket)

		// Synchronous object extraction
		r.Post("/parse", deps.Parse.ParseObject)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.Logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
