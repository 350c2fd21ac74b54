package store

import (
	"log/slog"
	"sort"
	"sync"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// ThreadStore keeps the ordered message sequence for one open conversation,
// merged from history fetches, optimistic local sends and realtime deliveries.
//
// Invariant: messages are totally ordered by CreatedAt ascending, with any
// pending local sends at the tail. A pending entry is replaced in place by
// the server-confirmed message for the same logical send; the match is keyed
// by the temporary id or the client correlation key, so a realtime echo that
// races the HTTP acknowledgment never produces a duplicate.
type ThreadStore struct {
	mu             sync.Mutex
	msgs           []chat.Message
	conversationID string
	localUserID    string
	logger         *slog.Logger
}

// NewThreadStore constructs an empty thread store for one conversation.
func NewThreadStore(conversationID, localUserID string, logger *slog.Logger) *ThreadStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreadStore{
		conversationID: conversationID,
		localUserID:    localUserID,
		logger:         logger,
	}
}

// ConversationID returns the conversation this thread belongs to.
func (s *ThreadStore) ConversationID() string {
	return s.conversationID
}

// ApplyHistory merges a fetched message page: confirmed entries are replaced
// by the server's view (deduplicated by id, sorted ascending by CreatedAt)
// while pending local sends are preserved at the tail.
func (s *ThreadStore) ApplyHistory(history []chat.Message) {
	deduped := make([]chat.Message, 0, len(history))
	index := make(map[string]int, len(history))
	for _, m := range history {
		if at, seen := index[m.ID]; seen {
			deduped[at] = m
			continue
		}
		index[m.ID] = len(deduped)
		deduped = append(deduped, m)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].CreatedAt.Before(deduped[j].CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []chat.Message
	for _, m := range s.msgs {
		if !m.Pending {
			continue
		}
		// A send confirmed server-side between our append and this fetch
		// already appears in history; drop the stale local copy.
		if _, confirmed := index[m.ID]; confirmed || s.historyHasClientKey(deduped, m.ClientKey) {
			continue
		}
		pending = append(pending, m)
	}

	s.msgs = append(deduped, pending...)
}

// AppendOptimistic appends a pending local send at the end of the sequence.
func (s *ThreadStore) AppendOptimistic(m chat.Message) {
	m.Pending = true
	if m.Status == "" {
		m.Status = chat.StatusSent
	}

	s.mu.Lock()
	s.msgs = append(s.msgs, m)
	s.mu.Unlock()
}

// ConfirmSent replaces the pending entry for tempID with the server-confirmed
// message, preserving its position and promoting its status to delivered.
//
// A miss is not an error: it means the realtime echo was merged first (or the
// entry was rolled back); the confirmation is then dropped after logging.
func (s *ThreadStore) ConfirmSent(tempID string, server chat.Message) bool {
	server.Pending = false
	if server.Status == "" || server.Status == chat.StatusSent {
		server.Status = chat.StatusDelivered
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.msgs {
		if !s.msgs[i].Pending {
			continue
		}
		if s.msgs[i].ID == tempID || (server.ClientKey != "" && s.msgs[i].ClientKey == server.ClientKey) {
			s.msgs[i] = server
			return true
		}
	}

	// The echo may already occupy the slot under the server id.
	if s.indexByID(server.ID) >= 0 {
		return true
	}

	s.logger.Warn("thread store: no pending entry for confirmation",
		"conversation_id", s.conversationID, "temp_id", tempID, "server_id", server.ID)
	return false
}

// ApplyIncoming merges a realtime message delivery. Duplicates (by server id
// or by client correlation key against a pending send) are discarded;
// otherwise the message is appended. Append-at-end is correct because the
// channel delivers events for one conversation in causal order.
func (s *ThreadStore) ApplyIncoming(server chat.Message) bool {
	server.Pending = false

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByID(server.ID) >= 0 {
		return false
	}
	if server.ClientKey != "" {
		for i := range s.msgs {
			if s.msgs[i].Pending && s.msgs[i].ClientKey == server.ClientKey {
				// Echo of our own in-flight send: reconcile in place.
				if server.Status == "" || server.Status == chat.StatusSent {
					server.Status = chat.StatusDelivered
				}
				s.msgs[i] = server
				return false
			}
		}
	}

	s.msgs = append(s.msgs, server)
	return true
}

// MarkRead records that readerID read the thread: every message not sent by
// the reader gains the reader in its read-by set and is promoted to read.
// Idempotent.
func (s *ThreadStore) MarkRead(readerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.msgs {
		m := &s.msgs[i]
		if m.SenderID == readerID {
			continue
		}
		if !m.ReadByUser(readerID) {
			m.ReadBy = append(m.ReadBy, readerID)
		}
		if m.Status != chat.StatusRead {
			m.Status = chat.StatusRead
		}
	}
}

// RemoveOptimistic drops a pending entry after a failed send so no stuck
// temp message remains in the list. Returns whether an entry was removed.
func (s *ThreadStore) RemoveOptimistic(tempID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.msgs {
		if s.msgs[i].Pending && s.msgs[i].ID == tempID {
			s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
			return true
		}
	}
	return false
}

// Messages returns a copy of the current ordered sequence.
func (s *ThreadStore) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Len returns the number of messages currently held.
func (s *ThreadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func (s *ThreadStore) indexByID(id string) int {
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ThreadStore) historyHasClientKey(history []chat.Message, key string) bool {
	if key == "" {
		return false
	}
	for i := range history {
		if history[i].ClientKey == key {
			return true
		}
	}
	return false
}
