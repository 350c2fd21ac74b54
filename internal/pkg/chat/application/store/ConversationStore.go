package store

import (
	"sort"
	"sync"
	"time"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// ConversationStore keeps the ordered conversation list for one screen,
// merged from fetch results, realtime events and local actions.
//
// Every merge is idempotent: fetch responses and realtime events for the same
// conversation may arrive in either order, and duplicated event delivery must
// not double-count. The store is owned by a single screen session; the mutex
// only covers the channel read goroutine interleaving with UI calls.
type ConversationStore struct {
	mu          sync.Mutex
	items       []chat.Conversation
	localUserID string
}

// NewConversationStore constructs an empty store for the given local user.
// The local user id decides whether an incoming message increments unread.
func NewConversationStore(localUserID string) *ConversationStore {
	return &ConversationStore{localUserID: localUserID}
}

// ApplyFetch replaces the list wholesale with the server result, deduplicated
// by id (last write wins) and stable-sorted descending by UpdatedAt.
func (s *ConversationStore) ApplyFetch(serverList []chat.Conversation) {
	deduped := make([]chat.Conversation, 0, len(serverList))
	index := make(map[string]int, len(serverList))
	for _, c := range serverList {
		if at, seen := index[c.ID]; seen {
			deduped[at] = c
			continue
		}
		index[c.ID] = len(deduped)
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].UpdatedAt.After(deduped[j].UpdatedAt)
	})

	s.mu.Lock()
	s.items = deduped
	s.mu.Unlock()
}

// ApplyIncomingMessage merges a new_message event into the list: the matching
// conversation gets the message as its lastMessage snapshot, its UpdatedAt
// advances to the event timestamp, unread increments unless the local user is
// the sender, and the row moves to the front. The remainder keeps its order;
// it was already sorted and the event is the newest activity.
//
// Returns false when the conversation id is unknown so the caller can decide
// to refetch the list; the event itself is dropped.
func (s *ConversationStore) ApplyIncomingMessage(conversationID string, msg chat.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.indexOf(conversationID)
	if at < 0 {
		return false
	}

	conv := s.items[at]

	// Duplicate delivery of the same message must not double-count.
	if conv.LastMessage != nil && conv.LastMessage.ID == msg.ID {
		return true
	}

	if msg.SenderID != s.localUserID {
		conv.UnreadCount++
	}

	// Newest-wins: a fetch that already observed later activity is not
	// rolled back by a stale event replay.
	if !msg.CreatedAt.Before(conv.UpdatedAt) {
		snapshot := msg
		conv.LastMessage = &snapshot
		conv.UpdatedAt = msg.CreatedAt

		copy(s.items[1:at+1], s.items[:at])
		s.items[0] = conv
		return true
	}

	s.items[at] = conv
	return true
}

// MarkRead resets the unread count for the conversation to zero. Idempotent;
// unknown ids are ignored.
func (s *ConversationStore) MarkRead(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at := s.indexOf(conversationID); at >= 0 {
		s.items[at].UnreadCount = 0
	}
}

// SetUnread applies a server-authoritative unread count, as delivered by the
// unread_count_updated event. Negative counts clamp to zero.
func (s *ConversationStore) SetUnread(conversationID string, count int) {
	if count < 0 {
		count = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if at := s.indexOf(conversationID); at >= 0 {
		s.items[at].UnreadCount = count
	}
}

// ApplyStatusChange updates the presence flag of the participant in every
// conversation that involves the given user.
func (s *ConversationStore) ApplyStatusChange(userID string, online bool, lastSeen *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Participant.ID != userID {
			continue
		}
		s.items[i].Participant.Online = online
		if lastSeen != nil {
			seen := *lastSeen
			s.items[i].Participant.LastSeen = &seen
		}
	}
}

// Conversations returns a copy of the current ordered list.
func (s *ConversationStore) Conversations() []chat.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.Conversation, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the conversation with the given id, if present.
func (s *ConversationStore) Get(conversationID string) (chat.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at := s.indexOf(conversationID); at >= 0 {
		return s.items[at], true
	}
	return chat.Conversation{}, false
}

// Len returns the number of conversations currently held.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *ConversationStore) indexOf(conversationID string) int {
	for i := range s.items {
		if s.items[i].ID == conversationID {
			return i
		}
	}
	return -1
}
