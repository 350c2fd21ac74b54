package chat

import "time"

// Event names pushed by the backend over the realtime channel.
const (
	EventNewMessage         = "new_message"
	EventMessagesRead       = "messages_read"
	EventUserTyping         = "user_typing"
	EventUserStatusChange   = "user_status_change"
	EventUnreadCountUpdated = "unread_count_updated"
	EventNewNotification    = "new_notification"
)

// Event names the client emits.
const (
	EmitSubscribeNotifications = "subscribe_notifications"
	EmitGetUnreadCount         = "get_unread_count"
	EmitTypingStart            = "typing_start"
	EmitTypingStop             = "typing_stop"
	EmitMarkMessagesRead       = "mark_messages_read"
)

// NewMessagePayload carries a freshly delivered message.
type NewMessagePayload struct {
	ConversationID string  `json:"conversationId"`
	Message        Message `json:"message"`
}

// MessagesReadPayload signals that the peer read everything in a conversation.
type MessagesReadPayload struct {
	ConversationID string    `json:"conversationId"`
	ReaderID       string    `json:"readerId"`
	ReadAt         time.Time `json:"readAt"`
}

// TypingPayload reports a peer starting or stopping typing.
type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Typing         bool   `json:"isTyping"`
}

// StatusChangePayload reports a presence change for a user.
type StatusChangePayload struct {
	UserID   string     `json:"userId"`
	Online   bool       `json:"isOnline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// UnreadCountPayload carries a server-authoritative unread count for one
// conversation, sent in response to get_unread_count or on server-side resets.
type UnreadCountPayload struct {
	ConversationID string `json:"conversationId"`
	UnreadCount    int    `json:"unreadCount"`
}
