package ws

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection
type Client struct {
	hub         *Hub
	id          string
	conn        *websocket.Conn
	connectedAt time.Time

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(hub *Hub, id string, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		id:          id,
		conn:        conn,
		connectedAt: time.Now(),
		send:        make(chan []byte, hub.cfg.SendBufferSize),
	}
}

// enqueue queues a frame without blocking. False if full or closed.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump reads frames until the connection fails, then unregisters and
// reports the disconnect
func (c *Client) readPump(mh MessageHandler) {
	ctx := context.Background()
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
		mh.HandleDisconnect(ctx, c.id)
	}()

	c.conn.SetReadLimit(c.hub.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Warn("ws read error",
					slog.String("conn_id", c.id),
					slog.String("error", err.Error()))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.dispatch(ctx, mh, message)
	}
}

// dispatch hands one frame to the handler. A panic is logged and the
// connection stays open.
func (c *Client) dispatch(ctx context.Context, mh MessageHandler, message []byte) {
	defer func() {
		if err := recover(); err != nil {
			c.hub.logger.Error("panic recovered",
				slog.Any("error", err),
				slog.String("stack", string(debug.Stack())),
				slog.String("conn_id", c.id),
			)
		}
	}()
	mh.HandleMessage(ctx, c.id, message)
}

// writePump drains the send queue and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug("ws write failed", slog.String("conn_id", c.id), slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
