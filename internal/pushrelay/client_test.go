package pushrelay_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/pushrelay"
)

func newClient(srv *httptest.Server) *pushrelay.Client {
	return pushrelay.NewClient(pushrelay.ClientConfig{
		BaseURL: srv.URL,
		Logger:  zerolog.Nop(),
	})
}

func TestSend_SampleMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/--/api/v2/push/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "gzip, deflate", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{
			"to":    "ExponentPushToken[abc]",
			"sound": "default",
			"title": "Original Title",
			"body":  "And here is the body!",
			"data":  map[string]interface{}{"someData": "goes here"},
		}, body)

		_, _ = w.Write([]byte(`{"data":{"status":"ok","id":"ticket-1"}}`))
	}))
	defer srv.Close()

	ticket, err := newClient(srv).Send(context.Background(), pushrelay.SampleMessage("ExponentPushToken[abc]"))
	require.NoError(t, err)
	assert.True(t, ticket.OK())
	assert.Equal(t, "ticket-1", ticket.ID)
}

func TestSend_GzipResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"data":[{"status":"ok","id":"ticket-2"}]}`))
		_ = gz.Close()
	}))
	defer srv.Close()

	ticket, err := newClient(srv).Send(context.Background(), pushrelay.SampleMessage("tok"))
	require.NoError(t, err)
	assert.Equal(t, "ticket-2", ticket.ID)
}

func TestSend_TicketError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"error","message":"not a registered push notification recipient","details":{"error":"DeviceNotRegistered"}}}`))
	}))
	defer srv.Close()

	ticket, err := newClient(srv).Send(context.Background(), pushrelay.SampleMessage("tok"))
	assert.ErrorIs(t, err, pushrelay.ErrRejected)
	require.NotNil(t, ticket)
	assert.Equal(t, "DeviceNotRegistered", ticket.Details["error"])
}

func TestSend_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"errors":[{"code":"VALIDATION_ERROR","message":"bad to"}]}`, wantErr: pushrelay.ErrRejected},
		{name: "server error", status: http.StatusBadGateway, body: ``, wantErr: pushrelay.ErrUnavailable},
		{name: "server error with html", status: http.StatusServiceUnavailable, body: `<html>down</html>`, wantErr: pushrelay.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(srv).Send(context.Background(), pushrelay.SampleMessage("tok"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSend_ValidatesBeforeSending(t *testing.T) {
	client := pushrelay.NewClient(pushrelay.ClientConfig{BaseURL: "http://127.0.0.1:1", Logger: zerolog.Nop()})

	_, err := client.Send(context.Background(), pushrelay.Message{Title: "x"})
	assert.ErrorIs(t, err, pushrelay.ErrMissingRecipient)

	_, err = client.Send(context.Background(), pushrelay.Message{To: "tok"})
	assert.ErrorIs(t, err, pushrelay.ErrEmptyMessage)
}

func TestSend_AccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer srv.Close()

	client := pushrelay.NewClient(pushrelay.ClientConfig{
		BaseURL:     srv.URL,
		AccessToken: "secret",
		Logger:      zerolog.Nop(),
	})
	_, err := client.Send(context.Background(), pushrelay.SampleMessage("tok"))
	require.NoError(t, err)
}

func TestPushToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/--/api/v2/push/getExpoPushToken", r.URL.Path)

		var req pushrelay.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "device-1", req.DeviceID)
		assert.Equal(t, "proj-1", req.ProjectID)

		_, _ = w.Write([]byte(`{"data":{"expoPushToken":"ExponentPushToken[xyz]"}}`))
	}))
	defer srv.Close()

	token, err := newClient(srv).PushToken(context.Background(), pushrelay.TokenRequest{
		Type:      "fcm",
		DeviceID:  "device-1",
		ProjectID: "proj-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[xyz]", token)
}

func TestPushToken_RequiresDeviceID(t *testing.T) {
	client := pushrelay.NewClient(pushrelay.ClientConfig{Logger: zerolog.Nop()})
	_, err := client.PushToken(context.Background(), pushrelay.TokenRequest{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	assert.NoError(t, newClient(srv).Ping(context.Background()))

	srv.Close()
	assert.ErrorIs(t, newClient(srv).Ping(context.Background()), pushrelay.ErrUnavailable)
}
