package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Noor7086/Obyyo-sub002/internal/api/handlers"
	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	if s.deps.Metrics != nil && s.deps.Metrics.Prometheus() != nil {
		s.router.Handle("/metrics", s.deps.Metrics.Prometheus().Handler())
	}

	authMW := requireAuth(s.deps.Auth)

	// Long-lived, so no request timeout.
	s.router.With(authMW).Get("/ws", s.serveWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		authHandler := handlers.NewAuthHandler(s.deps.Auth, s.cfg.CookieSecure)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Get("/me", authHandler.Me)
		})

		gamesHandler := handlers.NewGamesHandler(s.deps.Generator.Catalog())
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gamesHandler.ListGames)
			r.Get("/{gameID}", gamesHandler.GetGame)
		})

		generatorHandler := handlers.NewGeneratorHandler(s.deps.Generator)
		r.Route("/generator", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/generate", generatorHandler.Generate)
		})

		accountHandler := handlers.NewAccountHandler(s.deps.Auth, s.deps.Preferences)
		r.Route("/account", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/dashboard", accountHandler.GetDashboard)
			r.Get("/preferences", accountHandler.GetPreferences)
			r.Put("/preferences", accountHandler.UpdatePreferences)
			r.Put("/preferences/{key}", accountHandler.UpdatePreference)
		})

		systemHandler := handlers.NewSystemHandler(handlers.SystemInfo{
			StartTime:     s.startTime,
			CatalogSource: s.deps.CatalogSource,
			ClientCount:   s.wsHub.ClientCount,
			Metrics:       s.deps.Metrics,
		})
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
		})
	})
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	user := handlers.UserFromContext(r.Context())
	s.wsHub.ServeWs(w, r, user.ID)
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "obyyo-api",
	})
}
