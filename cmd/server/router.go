package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tickprobe/internal/api"
	apiMiddleware "github.com/phrazzld/tickprobe/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	authHandler := api.NewAuthHandler(app.checker, app.jwtService, app.sessions, app.logger)
	tickerHandler := api.NewTickerHandler(app.sessions, app.logger)
	probeHandler := api.NewProbeHandler(app.sessions, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/ticker", tickerHandler.Get)
			r.Post("/ticker/start", tickerHandler.Start)
			r.Post("/ticker/stop", tickerHandler.Stop)
			r.Get("/ticker/stream", tickerHandler.Stream)

			r.Get("/probe", probeHandler.Get)
			r.Get("/probe/stream", probeHandler.Stream)
			r.With(app.runLimiter.Limit).Post("/probe/runs", probeHandler.Launch)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
