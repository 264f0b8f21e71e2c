// Package main runs the local clinic backend used for development and tests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/api"
	"github.com/clinicmate/clinicmate/internal/api/handler"
	"github.com/clinicmate/clinicmate/internal/api/middleware"
	"github.com/clinicmate/clinicmate/internal/auth"
	"github.com/clinicmate/clinicmate/internal/config"
	"github.com/clinicmate/clinicmate/internal/database"
	"github.com/clinicmate/clinicmate/internal/pushtoken"
	"github.com/clinicmate/clinicmate/internal/records"
	"github.com/clinicmate/clinicmate/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "clinicstub"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.LoadBackend()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	log.Info().Str("build_time", BuildTime).Msg("starting clinic dev backend")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.FromEnv(serviceName, Version, cfg.Telemetry))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()
	if tp.Enabled() {
		log.Info().Str("otlp_endpoint", cfg.OTLPEndpoint).Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	directory, err := records.NewDirectory(records.DefaultSeed(time.Now()), 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed patient records")
	}

	if cfg.JWTSigningKey == "local-dev-signing-key-change-in-production" {
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: cfg.JWTSigningKey,
			Issuer:     cfg.JWTIssuer,
			TTL:        cfg.TokenTTL,
		}),
		Users:  directory,
		Logger: log,
	})

	var (
		repo   pushtoken.Repository = pushtoken.NewInMemoryRepository()
		checks []handler.Check
	)
	if cfg.UsePostgres {
		dbConfig, err := database.ConfigFromEnv()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load database configuration")
		}
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to create schema")
		}
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		repo = pushtoken.NewPostgresRepository(pool)
		checks = append(checks, handler.Check{Name: "database", Ping: pool.Ping})
	}

	pushTokens := pushtoken.NewService(pushtoken.ServiceConfig{
		Repo:   repo,
		Logger: log,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		ServiceName: serviceName,
		Logger:      log,
		Metrics:     metrics,
		AuthService: authService,
		Records:     directory,
		PushTokens:  pushTokens,
		Checks:      checks,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
