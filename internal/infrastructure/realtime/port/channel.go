package port

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotConnected is returned by Emit when no live connection exists.
var ErrNotConnected = errors.New("realtime: channel is not connected")

// Handler consumes the data payload of one named event. Handlers run on the
// channel's read goroutine and must not block.
type Handler func(data json.RawMessage)

// Channel is the persistent bidirectional event connection a screen session
// holds against the backend.
//
// Contract:
//   - Connect authenticates with the bearer token and establishes at most one
//     live connection; any previous connection is fully closed first.
//   - Inbound events are dispatched to the handler registered under their
//     name; events with no registered handler are ignored, not errors.
//   - Close tears the connection down and is idempotent.
//
// Implementations must be safe for use from the read goroutine and the UI
// side concurrently.
type Channel interface {
	Connect(ctx context.Context, token string) error
	On(event string, h Handler)
	Emit(event string, data any) error
	Close() error
}
