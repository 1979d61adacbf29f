// Package ws is a small channel-based websocket hub over gorilla/websocket.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

var ErrConnectionClosed = errors.New("ws: connection closed")

type Connectioner interface {
	SendMessage(message []byte) error
	Close() error
}

type HubOptions struct {
	Logger      *logrus.Logger
	CheckOrigin func(r *http.Request) bool
	// OnConnect runs after the upgrade, before any message is read. An error
	// closes the connection.
	OnConnect    func(r *http.Request, hub *Hub, conn *Connection) error
	OnDisconnect func(conn *Connection)
	OnMessage    func(conn *Connection, message []byte)
}

type Hub struct {
	opts     HubOptions
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	channels map[string]map[*Connection]struct{}
	joined   map[*Connection]map[string]struct{}
}

func NewHub(opts *HubOptions) *Hub {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Hub{
		opts: *opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		channels: map[string]map[*Connection]struct{}{},
		joined:   map[*Connection]map[string]struct{}{},
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.opts.Logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	conn := newConnection(raw)
	if h.opts.OnConnect != nil {
		if err := h.opts.OnConnect(r, h, conn); err != nil {
			h.opts.Logger.WithError(err).Warn("websocket connection rejected")
			_ = conn.Close()
			_ = raw.Close()
			return
		}
	}
	go conn.writePump()
	h.readPump(conn)
}

func (h *Hub) readPump(conn *Connection) {
	defer func() {
		h.leaveAll(conn)
		if h.opts.OnDisconnect != nil {
			h.opts.OnDisconnect(conn)
		}
		_ = conn.Close()
	}()

	conn.raw.SetReadLimit(maxMessageSize)
	_ = conn.raw.SetReadDeadline(time.Now().Add(pongWait))
	conn.raw.SetPongHandler(func(string) error {
		return conn.raw.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := conn.raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.opts.Logger.WithError(err).Debug("websocket closed unexpectedly")
			}
			return
		}
		if h.opts.OnMessage != nil {
			h.opts.OnMessage(conn, message)
		}
	}
}

func (h *Hub) JoinChannel(channel string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channels[channel] == nil {
		h.channels[channel] = map[*Connection]struct{}{}
	}
	h.channels[channel][conn] = struct{}{}
	if h.joined[conn] == nil {
		h.joined[conn] = map[string]struct{}{}
	}
	h.joined[conn][channel] = struct{}{}
}

func (h *Hub) LeaveChannel(channel string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(channel, conn)
}

func (h *Hub) leave(channel string, conn *Connection) {
	if members := h.channels[channel]; members != nil {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	if chans := h.joined[conn]; chans != nil {
		delete(chans, channel)
		if len(chans) == 0 {
			delete(h.joined, conn)
		}
	}
}

func (h *Hub) leaveAll(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel := range h.joined[conn] {
		h.leave(channel, conn)
	}
}

func (h *Hub) ConnectionsInChannel(channel string) []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Connection, 0, len(h.channels[channel]))
	for conn := range h.channels[channel] {
		out = append(out, conn)
	}
	return out
}

// BroadcastToChannel queues message on every connection of channel. Slow or
// closed connections are skipped.
func (h *Hub) BroadcastToChannel(channel string, message []byte) int {
	sent := 0
	for _, conn := range h.ConnectionsInChannel(channel) {
		if err := conn.SendMessage(message); err != nil {
			h.opts.Logger.WithError(err).WithField("channel", channel).Debug("websocket send skipped")
			continue
		}
		sent++
	}
	return sent
}

type Connection struct {
	raw  *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newConnection(raw *websocket.Conn) *Connection {
	return &Connection{
		raw:  raw,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Connection) SendMessage(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- message:
		return nil
	default:
		return errors.New("ws: send buffer full")
	}
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return nil
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.raw.Close()
	}()
	for {
		select {
		case message := <-c.send:
			_ = c.raw.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.raw.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.raw.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.raw.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.raw.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.raw.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
