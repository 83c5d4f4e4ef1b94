package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
)

// Routes is everything NewRouter mounts. Limiter guards the public
// submission endpoints only.
type Routes struct {
	Leads          *LeadHandler
	Contacts       *ContactHandler
	Categories     *CategoryHandler
	Users          *UserHandler
	Webhook        *WebhookHandler
	Health         *HealthHandler
	Limiter        middleware.Limiter
	AdminToken     string
	AllowedOrigins []string
	Log            *zap.Logger
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(rt.Log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", chimw.RequestIDHeader, SignatureHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(rt.Limiter, rt.Log))
			r.Post("/leads/landing", rt.Leads.CaptureLanding)
			r.Post("/contact", rt.Contacts.Handle)
		})

		r.Post("/webhooks/leads", rt.Webhook.Handle)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminToken(rt.AdminToken))

			r.Route("/leads", func(r chi.Router) {
				r.Post("/", rt.Leads.Create)
				r.Get("/", rt.Leads.List)
				r.Get("/stats", rt.Leads.Stats)
				r.Get("/{id}", rt.Leads.Get)
				r.Patch("/{id}", rt.Leads.Update)
				r.Post("/{id}/assign", rt.Leads.AssignLead)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", rt.Categories.Create)
				r.Get("/", rt.Categories.List)
				r.Get("/{id}", rt.Categories.Get)
				r.Patch("/{id}", rt.Categories.Update)
				r.Delete("/{id}", rt.Categories.Deactivate)
			})

			r.Route("/users", func(r chi.Router) {
				r.Post("/", rt.Users.Register)
				r.Get("/", rt.Users.List)
				r.Get("/{id}", rt.Users.Get)
				r.Patch("/{id}", rt.Users.Update)
			})

			r.Get("/packages", rt.Users.Packages)
			r.Get("/contacts", rt.Contacts.List)
		})
	})

	return r
}
