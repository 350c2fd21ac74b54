package devserver

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// frame is the wire envelope for every realtime event, in both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{Event: event, Data: raw})
}

// conn wraps one user's websocket and coordinates outbound writes via a
// buffered channel. Safe for concurrent use.
type conn struct {
	id     string
	userID string

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

func newConn(userID string, ws *websocket.Conn) *conn {
	return &conn{
		id:     uuid.NewString(),
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, 128),
		close:  make(chan struct{}),
	}
}

func (c *conn) start() {
	go c.writeLoop()
}

// enqueue stages a payload for delivery. A full buffer closes the connection
// to keep backpressure bounded.
func (c *conn) enqueue(payload []byte) error {
	select {
	case <-c.close:
		return errors.New("connection closed")
	case c.send <- payload:
		return nil
	default:
		c.shutdown(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

func (c *conn) shutdown(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		deadline := time.Now().Add(writeWait)
		_ = c.ws.SetWriteDeadline(deadline)
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = c.ws.Close()
	})
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}

// hub tracks one active connection per user. Attaching a second socket for
// the same user closes the previous one after the swap.
type hub struct {
	mu    sync.RWMutex
	conns map[string]*conn // userID -> connection
}

func newHub() *hub {
	return &hub{conns: make(map[string]*conn)}
}

func (h *hub) attach(c *conn) {
	h.mu.Lock()
	previous := h.conns[c.userID]
	h.conns[c.userID] = c
	h.mu.Unlock()

	c.start()

	if previous != nil {
		previous.shutdown(4001, "session replaced")
	}
}

// detach removes the connection only if it is still the user's current one.
func (h *hub) detach(c *conn) {
	h.mu.Lock()
	if current, ok := h.conns[c.userID]; ok && current.id == c.id {
		delete(h.conns, c.userID)
	}
	h.mu.Unlock()
}

// notify delivers one event frame to the user's live connection, if any.
func (h *hub) notify(userID, event string, data any) bool {
	h.mu.RLock()
	c := h.conns[userID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}

	payload, err := encodeFrame(event, data)
	if err != nil {
		return false
	}
	return c.enqueue(payload) == nil
}

// broadcast delivers an event to every connected user except excludeUserID.
func (h *hub) broadcast(event string, data any, excludeUserID string) int {
	payload, err := encodeFrame(event, data)
	if err != nil {
		return 0
	}

	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		if excludeUserID != "" && c.userID == excludeUserID {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if c.enqueue(payload) == nil {
			delivered++
		}
	}
	return delivered
}

// closeAll terminates every tracked connection, e.g. on server shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	conns := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[string]*conn)
	h.mu.Unlock()

	for _, c := range conns {
		c.shutdown(1001, "server shutdown")
	}
}
