// Package handler provides the HTTP handlers of the clinic dev backend.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/clinicmate/clinicmate/internal/api/models"
	"github.com/clinicmate/clinicmate/internal/api/response"
)

// Check is a named dependency probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    []Check
	timeout   time.Duration
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, checks ...Check) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
		timeout:   2 * time.Second,
	}
}

// HealthCheck handles GET /api/ops/health (liveness).
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Version:   h.version,
		BuildTime: h.buildTime,
	})
}

// ReadinessCheck handles GET /api/ops/ready. Any failing check answers 503
// listing only the failures.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := h.run(r.Context())
	if failed := health.Failed(); len(failed) > 0 {
		health.Checks = failed
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	health.Checks = nil
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /api/ops/status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	health := h.run(r.Context())
	health.Version = h.version
	response.JSON(w, r, http.StatusOK, health)
}

func (h *OpsHandler) run(ctx context.Context) models.Health {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Checks: make([]models.CheckResult, 0, len(h.checks)),
	}
	for _, c := range h.checks {
		start := time.Now()
		err := c.Ping(ctx)
		res := models.CheckResult{
			Name:      c.Name,
			Status:    models.HealthStatusOK,
			LatencyMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			res.Status = models.HealthStatusFail
			res.Error = err.Error()
			health.Status = models.HealthStatusFail
		}
		health.Checks = append(health.Checks, res)
	}
	return health
}
