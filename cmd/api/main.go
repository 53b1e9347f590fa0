// Package main provides the entrypoint for the WanderMate API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/api"
	"github.com/wandermate/wandermate/internal/api/handler"
	"github.com/wandermate/wandermate/internal/api/middleware"
	"github.com/wandermate/wandermate/internal/database"
	"github.com/wandermate/wandermate/internal/geocoding"
	"github.com/wandermate/wandermate/internal/geocoding/geoapify"
	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/mlscore"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/redisstore"
	"github.com/wandermate/wandermate/internal/session"
	"github.com/wandermate/wandermate/internal/telemetry"
	"github.com/wandermate/wandermate/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wandermate-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting WanderMate API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database (profiles)
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Connect to Redis (sessions, geocode cache)
	redisConfig := redisstore.ConfigFromEnv()
	redisClient, err := redisstore.Connect(ctx, redisConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().
		Str("addr", redisConfig.Addr).
		Msg("redis connected")

	// Initialize profile repository and service
	profileService := profile.NewService(profile.NewPostgresRepository(pool))
	log.Info().Msg("profile service initialized")

	// Initialize geocoding provider and service
	geoapifyKey := os.Getenv("GEOAPIFY_API_KEY")
	if geoapifyKey == "" {
		log.Warn().Msg("GEOAPIFY_API_KEY not set - destination lookups will fail")
	}
	geocodeMetrics, err := middleware.NewProviderMetrics(geoapify.ProviderName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}
	geocoder := geocoding.NewService(geocoding.ServiceConfig{
		Provider: geoapify.NewClient(geoapify.ClientConfig{
			APIKey:      geoapifyKey,
			CountryCode: os.Getenv("GEOAPIFY_COUNTRY_CODE"),
		}),
		Cache:   redisClient,
		Metrics: geocodeMetrics,
		Logger:  log,
	})
	log.Info().Msg("geocoding service initialized")

	// Initialize model server client (optional)
	var pairScorer matching.PairScorer
	if baseURL := os.Getenv("ML_SERVER_URL"); baseURL != "" {
		pairScorer = mlscore.NewClient(mlscore.ClientConfig{BaseURL: baseURL})
		log.Info().Str("base_url", baseURL).Msg("model server client initialized")
	} else {
		log.Info().Msg("ML_SERVER_URL not set - using rule-based scoring only")
	}

	// Initialize session event publisher (optional)
	var publisher session.Publisher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topic := os.Getenv("PUBSUB_TOPIC")
		if topic == "" {
			topic = "wandermate-jobs"
		}
		eventPublisher, pubErr := worker.NewEventPublisher(ctx, projectID, topic)
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to initialize event publisher")
		}
		defer eventPublisher.Close()
		publisher = eventPublisher
		log.Info().
			Str("project_id", projectID).
			Str("topic", topic).
			Msg("event publisher initialized")
	}

	// Initialize session service
	sessionService := session.NewService(session.ServiceConfig{
		Repository: session.NewRedisRepository(redisClient, log),
		Geocoder:   geocoder,
		Attributes: profileService,
		Publisher:  publisher,
		Logger:     log,
	})
	log.Info().Msg("session service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		SessionService: sessionService,
		ProfileService: profileService,
		PairScorer:     pairScorer,
		ReadinessChecks: map[string]handler.ReadinessCheck{
			"database": func(ctx context.Context) error {
				return pool.Ping(ctx)
			},
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
