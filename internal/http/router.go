package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gatehouse/internal/auth"
	"gatehouse/internal/config"
)

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, authService *auth.Service, google googleAuthenticator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSlogMiddleware(logger))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSessionMiddleware(authService, logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	pages := NewPageHandler(logger)
	oauthHandler := NewOAuthHandler(google, authService, cfg.Environment, logger)

	r.Get("/", pages.Landing)
	r.Get("/dashboard", pages.Dashboard)
	r.Get("/auth/google", oauthHandler.InitiateGoogle)
	r.Get("/auth/google/callback", oauthHandler.CallbackGoogle)
	r.Get("/logout", oauthHandler.Logout)

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
