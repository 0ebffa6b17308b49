package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otc-auth/internal/config"
	"github.com/go-otc-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otc-auth/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(cfg.AllowedOrigins),
		MaxAge:           300,
	}))

	cookie := handler.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		TTL:    cfg.TokenTTL,
	}

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(deps.Sessions, cookie, deps.Assertions)
	adminH := handler.NewAdminHandler(deps.Sessions)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Post("/login", authH.Login)
		r.Post("/verify", authH.Verify)
		r.Get("/check-auth", authH.CheckAuth)
		r.Post("/logout", authH.Logout)

		r.With(appmiddleware.RequireAdmin(deps.AdminSecretHash)).Get("/tokens", adminH.ListTokens)
	})

	return r
}

// Credentialed CORS is not allowed with a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
