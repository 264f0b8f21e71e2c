package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/clinicmate/clinicmate/internal/api/models"
)

// RateLimitConfig is a request budget per window.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

// Rate limit tiers.
var (
	// LoginRateLimit guards credential checks.
	LoginRateLimit = RateLimitConfig{RequestLimit: 10, WindowLength: time.Minute}

	// StandardRateLimit applies to authenticated reads and writes.
	StandardRateLimit = RateLimitConfig{RequestLimit: 120, WindowLength: time.Minute}
)

// RateLimitByIP limits by client IP.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceeded(cfg.WindowLength)),
	)
}

// RateLimitByUser limits by authenticated user, falling back to client IP.
func RateLimitByUser(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(limitExceeded(cfg.WindowLength)),
	)
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID, nil
	}
	return httprate.KeyByRealIP(r)
}

// limitExceeded answers with a 429 problem. httprate does not expose the
// reset time, so Retry-After is the full window.
func limitExceeded(window time.Duration) http.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))
	return func(w http.ResponseWriter, r *http.Request) {
		problem := models.NewProblem(http.StatusTooManyRequests, GetRequestID(r.Context()), "Too many attempts. Please try again later.")
		problem.Instance = r.URL.Path
		w.Header().Set("Retry-After", retryAfter)
		problem.Write(w)
	}
}
