// Package http provides HTTP routing and middleware configuration
// for the StoryPath dev backend.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/storypath/storypath/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// StoryPath REST contract under /api. It applies JSON content-type
// enforcement, request logging, and bearer-JWT authentication, then mounts
// the project, location and tracking resources.
//
// Routes:
//
//	GET/POST/PATCH/DELETE /api/project
//	GET/POST/PATCH/DELETE /api/location
//	GET/POST/DELETE       /api/tracking
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") rejects non-JSON request bodies
//  2. WithRequestLogging(logger) logs incoming requests
//  3. BearerAuth(jwtSecret) enforces bearer token auth
func NewRouter(
	catalogHandler *CatalogHandler,
	trackingHandler *TrackingHandler,
	logger *zap.Logger,
	jwtSecret string,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce bearer-token authentication
	r.Use(middleware.BearerAuth(jwtSecret))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/project", func(r chi.Router) {
			r.Get("/", catalogHandler.GetProjects)
			r.Post("/", catalogHandler.CreateProject)
			r.Patch("/", catalogHandler.PatchProject)
			r.Delete("/", catalogHandler.DeleteProject)
		})
		r.Route("/location", func(r chi.Router) {
			r.Get("/", catalogHandler.GetLocations)
			r.Post("/", catalogHandler.CreateLocation)
			r.Patch("/", catalogHandler.PatchLocation)
			r.Delete("/", catalogHandler.DeleteLocation)
		})
		r.Route("/tracking", func(r chi.Router) {
			r.Get("/", trackingHandler.GetScans)
			r.Post("/", trackingHandler.CreateScan)
			r.Delete("/", trackingHandler.DeleteScans)
		})
	})

	return r
}
