package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"killick/pkg/dashboard"
	"killick/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 16
)

// Message types pushed to websocket clients.
const (
	MsgFrame   = "frame"
	MsgTheme   = "theme"
	MsgSetting = "setting"
)

// Envelope is the JSON shape of every websocket message.
type Envelope struct {
	Type  string           `json:"type"`
	Frame *dashboard.Frame `json:"frame,omitempty"`
	Dark  *bool            `json:"dark,omitempty"`
	Name  string           `json:"name,omitempty"`
	Value *string          `json:"value,omitempty"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans dashboard updates out to connected websocket clients. A client
// that cannot keep up is dropped.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*wsClient
	latest   map[string][]byte // last message per type, replayed on connect
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*wsClient),
		latest:  make(map[string][]byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboards are served from other origins on the boat network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// PublishFrame implements dashboard.Sink.
func (h *Hub) PublishFrame(f *dashboard.Frame) {
	h.Broadcast(&Envelope{Type: MsgFrame, Frame: f})
}

// PublishTheme pushes the theme flag.
func (h *Hub) PublishTheme(dark bool) {
	h.Broadcast(&Envelope{Type: MsgTheme, Dark: &dark})
}

// PublishSetting pushes a single setting change.
func (h *Hub) PublishSetting(name, value string) {
	h.Broadcast(&Envelope{Type: MsgSetting, Name: name, Value: &value})
}

// Broadcast sends env to every client.
func (h *Hub) Broadcast(env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("Failed to encode websocket message", "type", env.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if env.Type != MsgSetting {
		h.latest[env.Type] = data
	}
	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			slog.Warn("Websocket client too slow, dropping", "client", id)
			h.removeLocked(id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWS upgrades the request and streams messages until the client leaves.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		slog.Debug("Websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientSendSize),
	}

	h.mu.Lock()
	for _, typ := range []string{MsgTheme, MsgFrame} {
		if data, ok := h.latest[typ]; ok {
			c.send <- data
		}
	}
	h.clients[c.id] = c
	metrics.WSClients.Set(float64(len(h.clients)))
	h.mu.Unlock()

	slog.Info("Websocket client connected", "client", c.id, "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.clients {
		h.removeLocked(id)
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
	metrics.WSClients.Set(float64(len(h.clients)))
}

// readPump only handles control frames; clients do not send data.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.remove(c.id)
		c.conn.Close()
		slog.Info("Websocket client disconnected", "client", c.id)
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("Websocket read error", "client", c.id, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("Websocket write failed", "client", c.id, "error", err)
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
