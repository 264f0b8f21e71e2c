// Package response writes JSON and problem+json responses.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/clinicmate/clinicmate/internal/api/middleware"
	"github.com/clinicmate/clinicmate/internal/api/models"
)

// JSON writes data as JSON with the given status code and echoes the
// request id in X-Request-Id.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Message writes a 200 {"message": ...} acknowledgement.
func Message(w http.ResponseWriter, r *http.Request, message string) {
	JSON(w, r, http.StatusOK, models.Message{Message: message})
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter, r *http.Request) {
	setRequestID(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a Problem+JSON error response.
func Error(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	problem.Instance = r.URL.Path
	problem.Write(w)
}

func problem(r *http.Request, status int, detail string) *models.Problem {
	return models.NewProblem(status, middleware.GetRequestID(r.Context()), detail)
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, errors []models.FieldError) {
	p := problem(r, http.StatusBadRequest, detail)
	p.Errors = errors
	Error(w, r, p)
}

// Unauthorized writes a 401 Unauthorized error response.
func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, problem(r, http.StatusUnauthorized, detail))
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, problem(r, http.StatusNotFound, detail))
}

// RateLimitInfo contains rate limit information for 429 responses.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	ResetAt    int64
	RetryAfter int
}

// TooManyRequests writes a 429 response, with rate limit headers when info is set.
func TooManyRequests(w http.ResponseWriter, r *http.Request, detail string, info *RateLimitInfo) {
	if info != nil {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt, 10))
		if info.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(info.RetryAfter))
		}
	}
	Error(w, r, problem(r, http.StatusTooManyRequests, detail))
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, problem(r, http.StatusInternalServerError, detail))
}

// ServiceUnavailable writes a 503 Service Unavailable error response.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, problem(r, http.StatusServiceUnavailable, detail))
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if id := middleware.GetRequestID(r.Context()); id != "" {
		w.Header().Set("X-Request-Id", id)
	}
}
