package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/willckim/ClaimInvestigator-AI/app"
	"github.com/willckim/ClaimInvestigator-AI/handlers"
	"github.com/willckim/ClaimInvestigator-AI/middleware"
	"github.com/willckim/ClaimInvestigator-AI/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	if deps.Config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(deps.DB, deps.CompletionService, deps.Logger)
	completions := handlers.NewCompletionHandler(deps.CompletionService, deps.Logger)

	var auditRecords *handlers.AuditHandler
	if deps.AuditService != nil {
		health.WithAuditStats(deps.AuditService)
		auditRecords = handlers.NewAuditHandler(deps.AuditService, deps.Logger)
	}

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	if deps.Metrics != nil {
		path := deps.Config.Observability.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, deps.Metrics.Handler())
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", completions.HandleStatus)
		r.Post("/redact", completions.HandleRedact)
		r.Post("/completions", completions.HandleComplete)

		// Audit trail reads need the database
		if auditRecords != nil {
			r.Get("/completions/{id}", auditRecords.HandleGetCompletion)
			r.Get("/audit", auditRecords.HandleList)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}
