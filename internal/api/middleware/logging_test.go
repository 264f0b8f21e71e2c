package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/api/middleware"
	"github.com/clinicmate/clinicmate/internal/auth"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("response body"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/reservations", http.NoBody))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/reservations", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(13), entry["bytes"])
	assert.NotContains(t, entry, "trace_id")
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusNoContent, "info"},
		{http.StatusUnauthorized, "warn"},
		{http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/logout", http.NoBody))

		entry := decodeLogLine(t, &buf)
		assert.Equal(t, tt.level, entry["level"])
		assert.Equal(t, float64(tt.status), entry["status"])
	}
}

func TestLogger_IncludesRouteAndRequestID(t *testing.T) {
	var buf bytes.Buffer

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(zerolog.New(&buf)))
	r.Get("/api/files/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/files/3", http.NoBody))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "/api/files/{id}", entry["route"])
	assert.Contains(t, entry["request_id"], "req_")
	assert.NotContains(t, entry, "user_id")
}

func TestLogger_UserIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", http.NoBody)
	req = req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{UserID: "12"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "12", decodeLogLine(t, &buf)["user_id"])
}

func TestLogger_IncludesTraceID(t *testing.T) {
	_, cleanup := setupTestTracer()
	defer cleanup()

	var buf bytes.Buffer
	handler := middleware.Tracing("test-service")(
		middleware.Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user", http.NoBody))

	entry := decodeLogLine(t, &buf)
	assert.Len(t, entry["trace_id"], 32)
	assert.Len(t, entry["span_id"], 16)
}
