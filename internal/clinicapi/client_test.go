package clinicapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/provider/resilience"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AuthToken(context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, srv *httptest.Server, tokens clinicapi.TokenSource) *clinicapi.Client {
	t.Helper()
	return clinicapi.NewClient(clinicapi.ClientConfig{
		BaseURL: srv.URL + "/api",
		Tokens:  tokens,
		Logger:  zerolog.Nop(),
	})
}

func TestClient_AttachesBearerWhenTokenStored(t *testing.T) {
	var gotAuth, gotAccept, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"id":7,"name":"Jane Doe","email":"jane@x.io","license_number":"L-1"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, staticTokens{token: "abc"})
	user, err := client.User(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, clinicapi.ID("7"), user.ID)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "L-1", user.LicenseNumber)
	assert.Empty(t, user.Address)
}

func TestClient_NoBearerWithoutToken(t *testing.T) {
	tests := []struct {
		name   string
		tokens clinicapi.TokenSource
	}{
		{name: "nil source", tokens: nil},
		{name: "empty token", tokens: staticTokens{}},
		{name: "read error", tokens: staticTokens{err: errors.New("keychain locked")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hadAuth atomic.Bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok := r.Header["Authorization"]
				hadAuth.Store(ok)
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			client := newTestClient(t, srv, tt.tokens)
			_, err := client.Reservations(context.Background())
			require.NoError(t, err)
			assert.False(t, hadAuth.Load())
		})
	}
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)

		var req clinicapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "a@b.co" || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"T1"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil)

	token, err := client.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	_, err = client.Login(context.Background(), "a@b.co", "wrong")
	require.Error(t, err)
	assert.True(t, clinicapi.IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", clinicapi.ErrorMessage(err))

	var apiErr *clinicapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "POST /login", apiErr.Op)
}

func TestClient_LoginWithoutTokenInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).Login(context.Background(), "a@b.co", "pw")
	assert.ErrorIs(t, err, clinicapi.ErrUnexpectedStatus)
}

func TestClient_UnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"title":"Unauthorized","detail":"token revoked"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, staticTokens{token: "stale"})
	_, err := client.MedicalFiles(context.Background())

	assert.ErrorIs(t, err, clinicapi.ErrUnauthorized)
	assert.Equal(t, "token revoked", clinicapi.ErrorMessage(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).MedicalFiles(context.Background())
	assert.ErrorIs(t, err, clinicapi.ErrServer)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, clinicapi.ErrUnauthorized},
		{http.StatusBadRequest, clinicapi.ErrValidation},
		{http.StatusUnprocessableEntity, clinicapi.ErrValidation},
		{http.StatusNotFound, clinicapi.ErrNotFound},
		{http.StatusBadGateway, clinicapi.ErrServer},
		{http.StatusTeapot, clinicapi.ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestClient(t, srv, nil).Logout(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newTestClient(t, srv, nil)
	srv.Close()

	_, err := client.User(context.Background())
	assert.ErrorIs(t, err, clinicapi.ErrUnavailable)
}

func TestClient_PushTokenEndpoints(t *testing.T) {
	got := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body clinicapi.PushTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got[r.URL.Path] = body.Token
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, staticTokens{token: "abc"})
	require.NoError(t, client.SavePushToken(context.Background(), "ExponentPushToken[1]"))
	require.NoError(t, client.DeletePushToken(context.Background(), "ExponentPushToken[2]"))

	assert.Equal(t, map[string]string{
		"/api/save-push-token":   "ExponentPushToken[1]",
		"/api/delete-push-token": "ExponentPushToken[2]",
	}, got)
}

func TestClient_MedicalFilesDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Blood test","date":"2024-03-05","description":"CBC","file_name":"cbc.pdf","doctor":{"name":"Dr. Who"}},
			{"id":"b-2","name":"X-ray","date":"2024-03-06","description":"","file_name":"xray.png"}
		]`))
	}))
	defer srv.Close()

	files, err := newTestClient(t, srv, nil).MedicalFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, clinicapi.ID("1"), files[0].ID)
	require.NotNil(t, files[0].Doctor)
	assert.Equal(t, "Dr. Who", files[0].Doctor.Name)
	assert.Equal(t, clinicapi.ID("b-2"), files[1].ID)
	assert.Nil(t, files[1].Doctor)
}

func TestClient_DownloadURL(t *testing.T) {
	client := clinicapi.NewClient(clinicapi.ClientConfig{
		BaseURL: "https://clinic.example.com/api",
		Logger:  zerolog.Nop(),
	})

	assert.Equal(t,
		"https://clinic.example.com/api/download?url=medical_files/report+2024.pdf",
		client.DownloadURL("report 2024.pdf"),
	)

	u, err := url.Parse(client.DownloadURL("a&b.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.RawQuery, "url=medical_files/"))
	assert.Equal(t, "medical_files/a&b.pdf", u.Query().Get("url"))
}

func TestClient_RecordsHealthInRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	registry := resilience.NewRegistry()
	client := clinicapi.NewClient(clinicapi.ClientConfig{
		BaseURL:  srv.URL,
		Registry: registry,
		Logger:   zerolog.Nop(),
	})

	_, err := client.Reservations(context.Background())
	require.NoError(t, err)

	health := registry.Health(clinicapi.ClientName)
	require.NotNil(t, health)
	assert.True(t, health.Healthy())
}

func TestID_JSON(t *testing.T) {
	var r clinicapi.Reservation
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"doctor":{"id":"d1","name":"X"},"patients":[{"id":3,"name":"P"}]}`), &r))
	assert.Equal(t, clinicapi.ID("42"), r.ID)
	assert.Equal(t, clinicapi.ID("d1"), r.Doctor.ID)
	assert.Equal(t, clinicapi.ID("3"), r.Patients[0].ID)

	out, err := json.Marshal(clinicapi.Patient{ID: "3", Name: "P"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"P"}`, string(out))

	var bad clinicapi.Patient
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &bad))
}
