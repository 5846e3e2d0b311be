package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jumuia/config"
	"jumuia/transport/ws"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingEvent struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	Property  string `json:"property"`
}

func (e bookingEvent) StreamProperty() string {
	return e.Property
}

func dial(t *testing.T, hub *ws.Hub, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	return dialAs(t, hub, origin, ws.Subscriber{UserID: "user-1"})
}

func dialAs(t *testing.T, hub *ws.Hub, origin string, subscriber ws.Subscriber) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, subscriber)
	}))
	t.Cleanup(server.Close)

	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}

	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
}

func TestHub_Broadcast(t *testing.T) {
	hub := ws.NewHub(&config.Config{})

	conn, _, err := dial(t, hub, "")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(map[string]string{"type": "booking.created", "bookingId": "BK-LIM-000001"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "booking.created", got["type"])
	assert.Equal(t, "BK-LIM-000001", got["bookingId"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := ws.NewHub(&config.Config{})

	assert.NotPanics(t, func() { hub.Broadcast(map[string]string{"type": "booking.updated"}) })
	assert.Zero(t, hub.Clients())
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.AllowedOrigins = []string{"https://admin.jumuiaresorts.com"}

	hub := ws.NewHub(cfg)

	t.Run("allowed", func(t *testing.T) {
		conn, _, err := dial(t, hub, "https://admin.jumuiaresorts.com")
		require.NoError(t, err)
		_ = conn.Close()
	})

	t.Run("rejected", func(t *testing.T) {
		_, res, err := dial(t, hub, "https://evil.example.com")
		require.Error(t, err)
		require.NotNil(t, res)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})
}

func TestHub_BroadcastRespectsPropertyScope(t *testing.T) {
	hub := ws.NewHub(&config.Config{})

	kisumu, _, err := dialAs(t, hub, "", ws.Subscriber{UserID: "staff-kisumu", Property: "kisumu"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = kisumu.Close() })

	everyone, _, err := dialAs(t, hub, "", ws.Subscriber{UserID: "gm-1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = everyone.Close() })

	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(bookingEvent{Type: "booking.created", BookingID: "WEB-111111111", Property: "limuru"})
	hub.Broadcast(bookingEvent{Type: "booking.created", BookingID: "WEB-222222222", Property: "kisumu"})

	read := func(conn *websocket.Conn) bookingEvent {
		t.Helper()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var got bookingEvent
		require.NoError(t, json.Unmarshal(payload, &got))

		return got
	}

	assert.Equal(t, "WEB-111111111", read(everyone).BookingID)
	assert.Equal(t, "WEB-222222222", read(everyone).BookingID)

	// The limuru event never reached the kisumu client, so its first message is the kisumu one.
	assert.Equal(t, "WEB-222222222", read(kisumu).BookingID)
}
