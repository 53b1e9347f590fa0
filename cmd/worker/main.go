// Package main provides the entrypoint for the WanderMate background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/database"
	"github.com/wandermate/wandermate/internal/geocoding"
	"github.com/wandermate/wandermate/internal/geocoding/geoapify"
	"github.com/wandermate/wandermate/internal/notify"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/redisstore"
	"github.com/wandermate/wandermate/internal/session"
	"github.com/wandermate/wandermate/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wandermate-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting WanderMate worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database (profiles)
	pool, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Connect to Redis (sessions)
	redisClient, err := redisstore.Connect(ctx, redisstore.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	profileService := profile.NewService(profile.NewPostgresRepository(pool))

	geocoder := geocoding.NewService(geocoding.ServiceConfig{
		Provider: geoapify.NewClient(geoapify.ClientConfig{
			APIKey:      os.Getenv("GEOAPIFY_API_KEY"),
			CountryCode: os.Getenv("GEOAPIFY_COUNTRY_CODE"),
		}),
		Cache:  redisClient,
		Logger: log,
	})

	sessionService := session.NewService(session.ServiceConfig{
		Repository: session.NewRedisRepository(redisClient, log),
		Geocoder:   geocoder,
		Attributes: profileService,
		Logger:     log,
	})

	// Email sender: SES in production, log-only otherwise
	var sender notify.Sender
	if from := os.Getenv("SES_FROM_ADDRESS"); from != "" {
		sesSender, sesErr := notify.NewSESSender(ctx, notify.SESSenderConfig{
			Region:      os.Getenv("AWS_REGION"),
			FromAddress: from,
		})
		if sesErr != nil {
			log.Fatal().Err(sesErr).Msg("failed to initialize SES sender")
		}
		sender = sesSender
		log.Info().Str("from", from).Msg("SES sender initialized")
	} else {
		sender = notify.NewLogSender(log)
		log.Warn().Msg("SES_FROM_ADDRESS not set - alerts are logged, not emailed")
	}

	alertJob := worker.NewAlertJob(worker.AlertJobConfig{
		Sessions: sessionService,
		Profiles: profileService,
		Sender:   sender,
		Logger:   log,
	})
	cleanupJob := worker.NewCleanupJob(sessionService, log)

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if projectID == "" || subscription == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID and PUBSUB_SUBSCRIPTION are required")
	}

	pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        projectID,
		SubscriptionName: subscription,
		AlertJob:         alertJob,
		CleanupJob:       cleanupJob,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize pubsub handler")
	}
	defer pubsubHandler.Close()

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Receive blocks until the context is cancelled
	go func() {
		if err := pubsubHandler.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("pubsub handler stopped")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
