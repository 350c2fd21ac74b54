package chat

import "time"

// User is the participant shape returned by the backend for conversation
// summaries, search results and presence updates.
type User struct {
	ID       string     `json:"_id"`
	Username string     `json:"username"`
	FullName string     `json:"fullName,omitempty"`
	Avatar   string     `json:"avatar,omitempty"`
	Online   bool       `json:"isOnline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}
