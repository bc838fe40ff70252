package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/notify"
)

// Hub pushes game notifications to connected websocket clients. It
// subscribes to the broker subject the notifier publishes on and fans
// each message out to the sockets of the targeted users.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[int]map[*websocket.Conn]bool
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[int]map[*websocket.Conn]bool),
	}
}

// Subscribe attaches the hub to the broker. Messages arrive as the
// notifier's JSON envelope.
func (h *Hub) Subscribe(conn *nats.Conn, prefix string) (*nats.Subscription, error) {
	return conn.Subscribe(prefix+".messages", func(msg *nats.Msg) {
		var m notify.Message
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			h.logger.Warn("dropping malformed broker message", zap.Error(err))
			return
		}
		h.fanOut(&m)
	})
}

// ServeWS upgrades the request and registers the socket for the user
// named in the header.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	user, err := strconv.Atoi(r.Header.Get(userHeader))
	if err != nil || user <= 0 {
		// The gateway also passes the user as a query parameter for
		// browser clients, which cannot set headers on websockets.
		user, err = strconv.Atoi(r.URL.Query().Get("user"))
		if err != nil || user <= 0 {
			http.Error(w, "missing user", http.StatusUnauthorized)
			return
		}
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.register(user, conn)
	h.logger.Debug("websocket connected", zap.Int("user", user))

	go h.readLoop(user, conn)
}

// readLoop drains the socket and unregisters it on close. Client frames
// carry no commands, the API is the write side.
func (h *Hub) readLoop(user int, conn *websocket.Conn) {
	defer func() {
		h.unregister(user, conn)
		conn.Close()
		h.logger.Debug("websocket disconnected", zap.Int("user", user))
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(user int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[user] == nil {
		h.conns[user] = make(map[*websocket.Conn]bool)
	}
	h.conns[user][conn] = true
}

func (h *Hub) unregister(user int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[user], conn)
	if len(h.conns[user]) == 0 {
		delete(h.conns, user)
	}
}

func (h *Hub) fanOut(m *notify.Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("failed to marshal push message", zap.Error(err))
		return
	}
	h.mu.Lock()
	var targets []*websocket.Conn
	if len(m.To) == 0 {
		for _, conns := range h.conns {
			for conn := range conns {
				targets = append(targets, conn)
			}
		}
	} else {
		for _, user := range m.To {
			for conn := range h.conns[user] {
				targets = append(targets, conn)
			}
		}
	}
	h.mu.Unlock()
	for _, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("failed to push to socket", zap.Error(err))
		}
	}
}

// CloseAll drops every socket, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for user, conns := range h.conns {
		for conn := range conns {
			conn.Close()
		}
		delete(h.conns, user)
	}
}

// Run serves the websocket endpoint until the context is cancelled.
func (h *Hub) Run(ctx context.Context, address, path string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(path, h.ServeWS)
	srv := &http.Server{Addr: address, Handler: mux}
	go func() {
		<-ctx.Done()
		h.CloseAll()
		srv.Close()
	}()
	h.logger.Info("websocket gateway listening", zap.String("address", address), zap.String("path", path))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
