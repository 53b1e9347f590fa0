// Package api provides the HTTP API for WanderMate.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/api/handler"
	"github.com/wandermate/wandermate/internal/api/middleware"
	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/session"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	SessionService *session.Service
	ProfileService *profile.Service

	// PairScorer is the optional model-server scorer blended into match
	// rankings. Nil means rule-based scores only.
	PairScorer matching.PairScorer

	// ReadinessChecks probe dependencies for /v1/ops/ready.
	ReadinessChecks map[string]handler.ReadinessCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wandermate-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks)
	sessionHandler := handler.NewSessionHandler(cfg.SessionService)
	matchHandler := handler.NewMatchHandler(cfg.SessionService, cfg.PairScorer, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)

	// Rate limit middleware per endpoint category
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Travel session lifecycle
		r.Route("/sessions", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Post("/", sessionHandler.CreateSession)
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Delete("/", sessionHandler.DeleteSession)
			})
		})

		// Matching - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Get("/matches/solo", matchHandler.SoloMatches)

		// Profiles
		r.Route("/profiles/{userId}", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", profileHandler.GetProfile)
			r.Put("/", profileHandler.UpsertProfile)
			r.Delete("/", profileHandler.DeleteProfile)
		})
	})

	return r
}
