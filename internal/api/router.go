// Package api wires the HTTP surface of the clinic dev backend.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/api/handler"
	"github.com/clinicmate/clinicmate/internal/api/middleware"
	"github.com/clinicmate/clinicmate/internal/api/models"
	"github.com/clinicmate/clinicmate/internal/auth"
	"github.com/clinicmate/clinicmate/internal/pushtoken"
	"github.com/clinicmate/clinicmate/internal/records"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	ServiceName string
	Logger      zerolog.Logger

	// Metrics is optional.
	Metrics *middleware.Metrics

	// RequireTLS rejects plain-HTTP requests.
	RequireTLS bool

	AuthService *auth.Service
	Records     *records.Directory
	PushTokens  *pushtoken.Service

	// Checks are probed by the readiness and status endpoints.
	Checks []handler.Check
}

// NewRouter creates the chi router serving the clinic contract under /api.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "clinicstub"
	}

	// Order matters: request id first, recovery inside logging.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))

	r.NotFound(problemHandler(http.StatusNotFound))
	r.MethodNotAllowed(problemHandler(http.StatusMethodNotAllowed))

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Checks...)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	patientHandler := handler.NewPatientHandler(cfg.Records)
	pushHandler := handler.NewPushTokenHandler(cfg.PushTokens)
	downloadHandler := handler.NewDownloadHandler(cfg.Records)

	authMiddleware := middleware.Auth(cfg.AuthService)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimitByIP(middleware.LoginRateLimit)).Post("/login", authHandler.Login)
		r.With(middleware.RateLimitByIP(middleware.StandardRateLimit)).Get("/download", downloadHandler.Download)

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))

			r.Post("/logout", authHandler.Logout)
			r.Get("/user", patientHandler.User)
			r.Get("/patient/files", patientHandler.Files)
			r.Get("/reservations", patientHandler.Reservations)
			r.Post("/save-push-token", pushHandler.Save)
			r.Post("/delete-push-token", pushHandler.Delete)
		})
	})

	return r
}

func problemHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		problem := models.NewProblem(status, middleware.GetRequestID(r.Context()), "")
		problem.Instance = r.URL.Path
		problem.Write(w)
	}
}
