package ws

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"jumuia/config"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Subscriber identifies who opened a stream. An empty Property receives every message.
type Subscriber struct {
	UserID   string
	Property string
}

// Scoped is implemented by messages that belong to a single property.
type Scoped interface {
	StreamProperty() string
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	user     string
	property string
}

func (c *client) wants(property string) bool {
	return c.property == "" || property == "" || c.property == property
}

// Hub keeps the connected dashboards and pushes booking events to them.
type Hub struct {
	upgrader websocket.Upgrader
	clients  map[*client]struct{}
	mutex    sync.RWMutex
}

func NewHub(cfg *config.Config) *Hub {
	origins := cfg.App.CORS.AllowedOrigins

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 || slices.Contains(origins, "*") {
					return true
				}

				return slices.Contains(origins, origin)
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Broadcast queues message for every client allowed to see it. Clients whose buffer is full are dropped.
func (h *Hub) Broadcast(message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode stream message")

		return
	}

	var property string
	if scoped, ok := message.(Scoped); ok {
		property = scoped.StreamProperty()
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c := range h.clients {
		if !c.wants(property) {
			continue
		}

		select {
		case c.send <- payload:
		default:
			log.Warn().Str("user_id", c.user).Msg("dropping slow stream client")
			h.remove(c)
		}
	}
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// Serve upgrades the request and blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, subscriber Subscriber) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c := &client{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		user:     subscriber.UserID,
		property: subscriber.Property,
	}

	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()

	log.Info().Str("user_id", subscriber.UserID).Str("property", subscriber.Property).Msg("stream client connected")

	go h.write(c)
	h.read(c)

	return nil
}

// read drains control frames so pongs and close messages are handled.
func (h *Hub) read(c *client) {
	defer func() {
		h.mutex.Lock()
		h.remove(c)
		h.mutex.Unlock()

		_ = c.conn.Close()

		log.Info().Str("user_id", c.user).Msg("stream client disconnected")
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) write(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("user_id", c.user).Msg("failed to write stream message")

				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// remove must be called with the lock held.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
}
