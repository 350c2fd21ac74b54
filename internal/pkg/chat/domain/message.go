package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType tags the message content kind as sent by the backend.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeFile  MessageType = "file"
)

// DeliveryStatus is the message delivery lifecycle: sent -> delivered -> read.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

// Domain-level errors for message behaviors
var (
	ErrEmptyMessage  = errors.New("chat: empty message body")
	ErrMissingSender = errors.New("chat: sender id is required")
	ErrMissingThread = errors.New("chat: conversation id is required")
)

// Message is one entry in a conversation thread.
//
// While a send is in flight the entry carries a locally generated ID and
// Pending=true; the server-confirmed message replaces it in place. ClientKey
// is a client-generated correlation id echoed back by the backend so the
// optimistic entry can be matched even if acknowledgments are reordered.
type Message struct {
	ID             string         `json:"_id"`
	ConversationID string         `json:"conversationId"`
	SenderID       string         `json:"senderId"`
	Content        string         `json:"content"`
	Type           MessageType    `json:"type"`
	CreatedAt      time.Time      `json:"createdAt"`
	Status         DeliveryStatus `json:"status"`
	ReadBy         []string       `json:"readBy,omitempty"`
	ClientKey      string         `json:"clientKey,omitempty"`

	// Pending marks a local optimistic entry awaiting server confirmation.
	// Never serialized; the backend has no notion of it.
	Pending bool `json:"-"`
}

// NewOutgoing builds a validated optimistic message ready to append to a
// thread. Validation happens here, before any network call: an empty (or
// whitespace-only) body is rejected for text messages.
func NewOutgoing(conversationID, senderID, content string, msgType MessageType) (Message, error) {
	if conversationID == "" {
		return Message{}, ErrMissingThread
	}
	if senderID == "" {
		return Message{}, ErrMissingSender
	}
	if msgType == "" {
		msgType = MessageTypeText
	}

	trimmed := strings.TrimSpace(content)
	if msgType == MessageTypeText && trimmed == "" {
		return Message{}, ErrEmptyMessage
	}

	key := uuid.NewString()
	return Message{
		ID:             "local-" + key,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        trimmed,
		Type:           msgType,
		CreatedAt:      time.Now().UTC(),
		Status:         StatusSent,
		ClientKey:      key,
		Pending:        true,
	}, nil
}

// ReadByUser tells whether userID is already in the read-by set.
func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
