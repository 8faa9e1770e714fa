package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/blogrelay/internal/api"
	apiMiddleware "github.com/phrazzld/blogrelay/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.CORS())

	blogHandler := api.NewBlogHandler(app.relay, app.content, app.index, app.logger)
	healthHandler := api.NewHealthHandler(app.ready, api.DefaultReadyTimeout)

	// Original single-endpoint path, kept for existing clients
	r.Post("/blog-generation", blogHandler.GenerateBlog)

	r.Post("/api/blogs", blogHandler.GenerateBlog)
	r.Get("/api/blogs", blogHandler.ListBlogs)
	r.Get("/api/blogs/*", blogHandler.GetBlog)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
