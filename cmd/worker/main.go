// Package main runs the push dispatch worker.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/config"
	"github.com/clinicmate/clinicmate/internal/provider/resilience"
	"github.com/clinicmate/clinicmate/internal/pushrelay"
	"github.com/clinicmate/clinicmate/internal/telemetry"
	"github.com/clinicmate/clinicmate/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "clinicmate-worker"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	log.Info().Str("build_time", BuildTime).Msg("starting push worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.FromEnv(serviceName, Version, cfg.Telemetry))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	registry := resilience.NewRegistry()

	// Retries happen in the dispatcher so the breaker sees one call per attempt.
	relay := pushrelay.NewClient(pushrelay.ClientConfig{
		BaseURL:     cfg.PushRelayURL,
		AccessToken: cfg.PushAccessToken,
		Retry:       resilience.NoRetry,
		Registry:    registry,
		Logger:      log,
	})

	retry := worker.DefaultRetryPolicy()
	retry.MaxRetries = cfg.MaxRetries

	dispatcher := worker.NewDispatcher(worker.DispatcherConfig{
		Relay:  relay,
		Retry:  retry,
		Logger: log,
	})

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        cfg.ProjectID,
		SubscriptionName: cfg.SubscriptionName,
		Dispatcher:       dispatcher,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}
	defer handler.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      healthMux(dispatcher, registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	go func() {
		if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("pubsub receive stopped")
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Interface("stats", dispatcher.Stats()).Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

type healthBody struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Relay   string       `json:"relay"`
	Stats   worker.Stats `json:"stats"`
}

func healthMux(dispatcher *worker.Dispatcher, registry *resilience.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		body := healthBody{Status: "healthy", Version: Version, Relay: "unknown", Stats: dispatcher.Stats()}
		if h := registry.Health(pushrelay.ClientName); h != nil {
			body.Relay = h.State.String()
			if !h.Healthy() {
				body.Status = "degraded"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	return mux
}
