package chat

import "time"

// Conversation is the summary row shown in a conversation list.
//
// UpdatedAt is the sole sort key for list ordering (descending, most recent
// first). UnreadCount is server-authoritative on fetch but incremented and
// reset locally between fetches.
type Conversation struct {
	ID          string    `json:"_id"`
	Participant User      `json:"participant"`
	LastMessage *Message  `json:"lastMessage,omitempty"`
	UnreadCount int       `json:"unreadCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
