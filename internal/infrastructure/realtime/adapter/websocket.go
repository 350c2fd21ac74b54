package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/realtime/port"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// RetryPolicy bounds connection establishment. The defaults satisfy the
// backend contract; any bounded policy is acceptable.
type RetryPolicy struct {
	Attempts       int           // dial attempts before giving up
	Delay          time.Duration // fixed delay between attempts
	ConnectTimeout time.Duration // per-attempt dial timeout
}

// DefaultRetryPolicy is 5 attempts, 1s apart, 10s per dial.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 5, Delay: time.Second, ConnectTimeout: 10 * time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.Attempts <= 0 {
		p.Attempts = d.Attempts
	}
	if p.Delay <= 0 {
		p.Delay = d.Delay
	}
	if p.ConnectTimeout <= 0 {
		p.ConnectTimeout = d.ConnectTimeout
	}
	return p
}

// frame is the wire shape of every event in both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSChannel is the gorilla/websocket implementation of port.Channel.
//
// One WSChannel belongs to one screen session. Connect replaces any previous
// connection after fully closing it, so a session never holds two live
// sockets. The read loop dispatches frames by event name and exits on the
// first read error; OnDisconnect, when set, observes that exit.
type WSChannel struct {
	url    string
	policy RetryPolicy
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string]port.Handler
	conn     *websocket.Conn
	writeMu  sync.Mutex
	done     chan struct{}

	// OnDisconnect is called once per connection after the read loop stops
	// for any reason other than an explicit Close.
	OnDisconnect func(err error)
}

// Ensure interface compliance at compile time
var _ port.Channel = (*WSChannel)(nil)

// NewWSChannel constructs a channel for the given websocket URL.
func NewWSChannel(url string, policy RetryPolicy, logger *slog.Logger) *WSChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSChannel{
		url:      url,
		policy:   policy.normalized(),
		logger:   logger,
		handlers: make(map[string]port.Handler),
	}
}

// On registers the handler for a named event, replacing any previous one.
func (c *WSChannel) On(event string, h port.Handler) {
	c.mu.Lock()
	c.handlers[event] = h
	c.mu.Unlock()
}

// Connect dials the backend with bounded retries, authenticating via the
// bearer token. A previous connection is fully closed before the new dial.
func (c *WSChannel) Connect(ctx context.Context, token string) error {
	c.closeCurrent()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	var lastErr error
	for attempt := 1; attempt <= c.policy.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.policy.Delay):
			}
		}

		dialCtx, cancel := context.WithTimeout(ctx, c.policy.ConnectTimeout)
		conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, header)
		cancel()
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			lastErr = err
			c.logger.Debug("realtime: dial failed",
				"attempt", attempt, "of", c.policy.Attempts, "err", err)
			continue
		}

		done := make(chan struct{})
		c.mu.Lock()
		c.conn = conn
		c.done = done
		c.mu.Unlock()

		go c.readLoop(conn, done)
		return nil
	}

	return fmt.Errorf("realtime: connect after %d attempts: %w", c.policy.Attempts, lastErr)
}

// Emit sends a named event with a JSON-encoded data payload.
func (c *WSChannel) Emit(event string, data any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return port.ErrNotConnected
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("realtime: encode %s payload: %w", event, err)
	}
	payload, err := json.Marshal(frame{Event: event, Data: raw})
	if err != nil {
		return fmt.Errorf("realtime: encode frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Close tears down the live connection, waiting for the read loop to exit.
// Safe to call repeatedly and while disconnected.
func (c *WSChannel) Close() error {
	c.closeCurrent()
	return nil
}

func (c *WSChannel) closeCurrent() {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	c.conn = nil
	c.done = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}

	c.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	_ = conn.Close()

	if done != nil {
		<-done
	}
}

func (c *WSChannel) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			deliberate := c.conn != conn // swapped out or closed by us
			c.mu.Unlock()
			if !deliberate && c.OnDisconnect != nil {
				c.OnDisconnect(err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.logger.Debug("realtime: malformed frame dropped", "err", err)
			continue
		}

		c.mu.Lock()
		h := c.handlers[f.Event]
		c.mu.Unlock()
		if h == nil {
			// Unknown event names are ignored by contract.
			continue
		}
		h(f.Data)
	}
}
