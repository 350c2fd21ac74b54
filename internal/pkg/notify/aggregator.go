// Package notify derives badge counts and transient popup state from the
// chat stores. It owns no data of its own beyond the single visible popup.
package notify

import (
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// UnreadSource is the read side of a conversation store.
type UnreadSource interface {
	Conversations() []chat.Conversation
}

// TotalUnread sums the unread counts of every conversation. It is recomputed
// from the store on every call rather than tracked incrementally, so the
// badge cannot drift from the list it summarizes.
func TotalUnread(src UnreadSource) int {
	total := 0
	for _, c := range src.Conversations() {
		total += c.UnreadCount
	}
	return total
}
