package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/metrics"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 8192
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks belong to the gateway in front of the notifier.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id       string
	identity string
	groups   []string
	conn     *websocket.Conn
	send     chan []byte
	hub      *Hub
}

// Hub tracks websocket connections and pushes notifications to them.
type Hub struct {
	clients    map[string]*client
	mu         sync.RWMutex
	register   chan *client
	unregister chan *client
	done       chan struct{}
	service    string
	log        *zap.Logger
}

var _ marketplace.Notifier = (*Hub)(nil)

func NewHub(service string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*client),
		register:   make(chan *client, 10),
		unregister: make(chan *client, 10),
		done:       make(chan struct{}),
		service:    service,
		log:        log,
	}
}

// Run owns registration until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("websocket hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Info("client registered",
				zap.String("client_id", c.id),
				zap.String("identity", c.identity),
				zap.Strings("groups", c.groups),
			)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			h.log.Info("client unregistered", zap.String("client_id", c.id))
		}
	}
}

// ServeWS upgrades /ws?user=<identity>&groups=<g1,g2>. The identity is
// trusted as given; authentication happens upstream.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("user")
	if identity == "" {
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:       uuid.NewString(),
		identity: identity,
		groups:   splitGroups(r.URL.Query().Get("groups")),
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		hub:      h,
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func splitGroups(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// SendToUser queues msg for every connection of identity and returns how many got it.
func (h *Hub) SendToUser(identity string, msg []byte) int {
	return h.fanOut(msg, func(c *client) bool { return strings.EqualFold(c.identity, identity) })
}

func (h *Hub) SendToGroup(group string, msg []byte) int {
	return h.fanOut(msg, func(c *client) bool { return slices.Contains(c.groups, group) })
}

func (h *Hub) fanOut(msg []byte, match func(*client) bool) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.send <- msg:
			n++
		default:
			h.log.Warn("client send buffer full", zap.String("client_id", c.id), zap.String("identity", c.identity))
		}
	}
	return n
}

// Connected reports whether identity has at least one open connection.
func (h *Hub) Connected(identity string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if strings.EqualFold(c.identity, identity) {
			return true
		}
	}
	return false
}

// Deliver pushes an already built envelope to its target.
func (h *Hub) Deliver(n marketplace.Notification) (int, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return 0, err
	}
	var sent int
	switch n.Target.Kind {
	case marketplace.TargetUser:
		sent = h.SendToUser(n.Target.Name, b)
	case marketplace.TargetGroup:
		sent = h.SendToGroup(n.Target.Name, b)
	default:
		return 0, marketplace.BadRequestf("unknown target kind %q", n.Target.Kind)
	}
	metrics.NotificationsPublished.WithLabelValues("ws", string(n.Target.Kind)).Inc()
	return sent, nil
}

func (h *Hub) NotifyUser(_ context.Context, identity, event string, payload any) error {
	n, err := envelope(h.service, userTarget(identity), event, payload)
	if err != nil {
		return err
	}
	_, err = h.Deliver(n)
	return err
}

func (h *Hub) NotifyGroup(_ context.Context, group, event string, payload any) error {
	n, err := envelope(h.service, groupTarget(group), event, payload)
	if err != nil {
		return err
	}
	_, err = h.Deliver(n)
	return err
}

// readPump drains client frames so pongs are processed.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("ws read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
