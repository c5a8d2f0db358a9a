/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboard and overlay

AUTH:
  requireToken gates routes on header equality against a configured
  secret. It rejects before any state is read; an empty configured
  secret disables the tier (there is nothing valid to present).

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Admin-Token", "X-Mod-Token"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Get("/stats/day/{date}", h.GetDayStats)

		// Mods and admins both see the copy blocks.
		r.With(requireAnyToken(h)).Get("/status-text", h.GetStatusText)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdminToken(h))
			r.Post("/takeover", h.Takeover)
			r.Post("/stamp", h.Stamp)
			r.Post("/plan", h.SetPlan)
			r.Post("/seed-demo", h.SeedDemo)
			r.Get("/export", h.Export)
		})
	})

	if h.Hub != nil {
		r.Get("/ws", h.ServeWS)
	}

	return r
}

// requireAdminToken gates mutations on X-Admin-Token.
func requireAdminToken(h *Handler) func(http.Handler) http.Handler {
	return requireToken(func(r *http.Request) bool {
		return tokenOK(r.Header.Get("X-Admin-Token"), h.Config.AdminToken)
	})
}

// requireAnyToken accepts either the mod or the admin token.
func requireAnyToken(h *Handler) func(http.Handler) http.Handler {
	return requireToken(func(r *http.Request) bool {
		return tokenOK(r.Header.Get("X-Mod-Token"), h.Config.ModToken) ||
			tokenOK(r.Header.Get("X-Admin-Token"), h.Config.AdminToken)
	})
}

func requireToken(ok func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ok(r) {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenOK(presented, expected string) bool {
	return expected != "" &&
		subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}
