package emailjs_test

import (
	"context"
	"encoding/json"
	"errors"
	"jumuia/config"
	"jumuia/infras/emailjs"
	"jumuia/infras/otel/mocks"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.External.EmailJS.BaseURL = baseURL
	cfg.External.EmailJS.ServiceID = "service_jumuia"
	cfg.External.EmailJS.PublicKey = "public"
	cfg.External.EmailJS.PrivateKey = "private"

	return cfg
}

func TestClient_Send(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	client := emailjs.New(newConfig(srv.URL), mocks.NewOtel())

	err := client.Send(context.Background(), "template_booking", map[string]string{"to_email": "guest@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "service_jumuia", got["service_id"])
	assert.Equal(t, "template_booking", got["template_id"])
	assert.Equal(t, "public", got["user_id"])
	assert.Equal(t, "private", got["accessToken"])
	assert.Equal(t, map[string]any{"to_email": "guest@example.com"}, got["template_params"])
}

func TestClient_SendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The template ID is invalid"))
	}))
	defer srv.Close()

	client := emailjs.New(newConfig(srv.URL), mocks.NewOtel())

	err := client.Send(context.Background(), "missing", nil)
	assert.ErrorContains(t, err, "status 400")
}

func TestClient_SendNotConfigured(t *testing.T) {
	client := emailjs.New(&config.Config{}, mocks.NewOtel())

	err := client.Send(context.Background(), "template_booking", nil)
	assert.True(t, errors.Is(err, emailjs.ErrNotConfigured))
}
