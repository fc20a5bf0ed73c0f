// Package ws carries protocol frames over gorilla/websocket connections.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
)

// MessageHandler consumes frames read from connections
type MessageHandler interface {
	HandleMessage(ctx context.Context, connID string, raw []byte)
	HandleDisconnect(ctx context.Context, connID string)
}

// Config holds websocket connection settings
type Config struct {
	ReadLimit      int64
	PongWait       time.Duration
	PingPeriod     time.Duration
	WriteWait      time.Duration
	SendBufferSize int
	// AllowedOrigins restricts browser origins. Empty allows any origin.
	AllowedOrigins []string
}

// DefaultConfig returns default websocket settings
func DefaultConfig() Config {
	return Config{
		ReadLimit:      64 * 1024,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		WriteWait:      10 * time.Second,
		SendBufferSize: 256,
	}
}

// Hub tracks every open connection and the player bound to it
type Hub struct {
	cfg      Config
	random   random.Random
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[string]*Client
	byPlayer map[model.PlayerID]string
	closed   bool
}

// NewHub creates a new Hub
func NewHub(cfg Config, random random.Random, logger *slog.Logger) *Hub {
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.SendBufferSize <= 0 {
		cfg.SendBufferSize = DefaultConfig().SendBufferSize
	}

	h := &Hub{
		cfg:      cfg,
		random:   random,
		logger:   logger.With(slog.String("component", "ws-hub")),
		clients:  make(map[string]*Client),
		byPlayer: make(map[model.PlayerID]string),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, r.Header.Get("Origin"))
}

// Handler upgrades requests and pumps their frames into mh
func (h *Hub) Handler(mh MessageHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		client := newClient(h, h.random.UUID(), conn)
		if !h.register(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(mh)
	})
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("conn_id", c.id),
		slog.String("remote_addr", c.conn.RemoteAddr().String()),
		slog.Int("total_clients", count))
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	for playerID, connID := range h.byPlayer {
		if connID == c.id {
			delete(h.byPlayer, playerID)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	c.closeSend()
	h.logger.Info("ws client unregistered",
		slog.String("conn_id", c.id),
		slog.Duration("connection_duration", time.Since(c.connectedAt)),
		slog.Int("total_clients", count))
}

// Bind addresses future SendTo calls for playerID to connID
func (h *Hub) Bind(connID string, playerID model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[connID]; !ok {
		return
	}
	for p, c := range h.byPlayer {
		if c == connID {
			delete(h.byPlayer, p)
		}
	}
	h.byPlayer[playerID] = connID
}

// Broadcast queues a frame for every connection
func (h *Hub) Broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, c := range h.clients {
		if !c.enqueue(frame) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("ws broadcast partial failure",
			slog.Int("sent", len(h.clients)-dropped),
			slog.Int("dropped", dropped))
	}
}

// SendTo queues a frame for the connection bound to playerID.
// Returns false if the player is offline or its buffer is full.
func (h *Hub) SendTo(playerID model.PlayerID, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connID, ok := h.byPlayer[playerID]
	if !ok {
		return false
	}
	return h.sendLocked(connID, frame)
}

// SendConn queues a frame for one connection
func (h *Hub) SendConn(connID string, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sendLocked(connID, frame)
}

func (h *Hub) sendLocked(connID string, frame []byte) bool {
	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	if !c.enqueue(frame) {
		h.logger.Warn("ws message dropped - client buffer full", slog.String("conn_id", connID))
		return false
	}
	return true
}

// ClientCount returns the number of open connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops accepting connections and closes every open one. Safe to call twice.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
	}
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", len(clients)))
}
