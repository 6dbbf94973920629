package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/integrity/internal/api/middleware"
	"github.com/kiranshivaraju/integrity/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc
	SignupHandler http.HandlerFunc
	LoginHandler  http.HandlerFunc

	BreakdownHandler http.HandlerFunc
	FeedbackHandler  http.HandlerFunc
	SourcesHandler   http.HandlerFunc

	DetectHandler    http.HandlerFunc
	DetectWebHandler http.HandlerFunc
	HistoryHandler   http.HandlerFunc

	SaveSessionHandler  http.HandlerFunc
	ListSessionsHandler http.HandlerFunc

	ExportHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Get("/health", orNotImplemented(deps.HealthHandler))
		r.Post("/auth/signup", orNotImplemented(deps.SignupHandler))
		r.Post("/auth/login", orNotImplemented(deps.LoginHandler))

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(deps.RateLimit.Limit)

			r.Route("/assist", func(r chi.Router) {
				r.Post("/breakdown", orNotImplemented(deps.BreakdownHandler))
				r.Post("/feedback", orNotImplemented(deps.FeedbackHandler))
				r.Post("/sources", orNotImplemented(deps.SourcesHandler))
			})

			r.Route("/detect", func(r chi.Router) {
				r.Post("/", orNotImplemented(deps.DetectHandler))
				r.Post("/web", orNotImplemented(deps.DetectWebHandler))
				r.Get("/history", orNotImplemented(deps.HistoryHandler))
			})

			r.Post("/sessions", orNotImplemented(deps.SaveSessionHandler))
			r.Get("/sessions", orNotImplemented(deps.ListSessionsHandler))

			r.Post("/export", orNotImplemented(deps.ExportHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
