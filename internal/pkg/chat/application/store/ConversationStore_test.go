package store

import (
	"strconv"
	"testing"
	"time"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

const localUser = "user-me"

func conv(id string, updatedAt time.Time, unread int) chat.Conversation {
	return chat.Conversation{
		ID:          id,
		Participant: chat.User{ID: "peer-" + id, Username: "peer"},
		UnreadCount: unread,
		UpdatedAt:   updatedAt,
	}
}

func msg(id, convID, senderID string, at time.Time) chat.Message {
	return chat.Message{
		ID:             id,
		ConversationID: convID,
		SenderID:       senderID,
		Content:        "hello",
		Type:           chat.MessageTypeText,
		CreatedAt:      at,
		Status:         chat.StatusDelivered,
	}
}

func assertSortedDescNoDupes(t *testing.T, items []chat.Conversation) {
	t.Helper()
	seen := make(map[string]bool, len(items))
	for i, c := range items {
		if seen[c.ID] {
			t.Fatalf("duplicate conversation id %q", c.ID)
		}
		seen[c.ID] = true
		if i > 0 && items[i-1].UpdatedAt.Before(c.UpdatedAt) {
			t.Fatalf("list not sorted descending at index %d", i)
		}
	}
}

func TestApplyFetchDeduplicatesAndSorts(t *testing.T) {
	t0 := time.Now().Truncate(time.Second)
	s := NewConversationStore(localUser)

	s.ApplyFetch([]chat.Conversation{
		conv("a", t0.Add(-2*time.Minute), 0),
		conv("b", t0, 1),
		conv("a", t0.Add(-time.Minute), 3), // later duplicate wins
		conv("c", t0.Add(-time.Minute), 0),
	})

	items := s.Conversations()
	if len(items) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(items))
	}
	assertSortedDescNoDupes(t, items)
	if items[0].ID != "b" {
		t.Fatalf("expected b first, got %s", items[0].ID)
	}
	// Last write wins for the duplicate id.
	if got, _ := s.Get("a"); got.UnreadCount != 3 {
		t.Fatalf("expected deduped a with unread 3, got %d", got.UnreadCount)
	}
	// Stable tie-break: a and c share updatedAt; a came later in the input
	// but replaced the earlier slot, so a precedes c.
	if items[1].ID != "a" || items[2].ID != "c" {
		t.Fatalf("unexpected tie order: %s, %s", items[1].ID, items[2].ID)
	}
}

func TestApplyIncomingMessageMovesToFrontAndIncrements(t *testing.T) {
	// Spec scenario: [{A, t0, unread 0}, {B, t0-1, unread 2}], event for A
	// at t1 > t0 from a remote sender.
	t0 := time.Now().Truncate(time.Second)
	t1 := t0.Add(time.Second)

	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{
		conv("A", t0, 0),
		conv("B", t0.Add(-time.Second), 2),
	})

	if handled := s.ApplyIncomingMessage("A", msg("m1", "A", "peer-A", t1)); !handled {
		t.Fatal("expected event for known conversation to be handled")
	}

	items := s.Conversations()
	if items[0].ID != "A" {
		t.Fatalf("expected A at index 0, got %s", items[0].ID)
	}
	if items[0].UnreadCount != 1 {
		t.Fatalf("expected A.unread = 1, got %d", items[0].UnreadCount)
	}
	if !items[0].UpdatedAt.Equal(t1) {
		t.Fatalf("expected A.updatedAt = t1, got %v", items[0].UpdatedAt)
	}
	if items[0].LastMessage == nil || items[0].LastMessage.ID != "m1" {
		t.Fatal("expected lastMessage snapshot m1")
	}
	assertSortedDescNoDupes(t, items)
}

func TestApplyIncomingMessageReordersFromBack(t *testing.T) {
	t0 := time.Now().Truncate(time.Second)
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{
		conv("a", t0, 0),
		conv("b", t0.Add(-time.Minute), 0),
		conv("c", t0.Add(-2*time.Minute), 0),
	})

	s.ApplyIncomingMessage("c", msg("m9", "c", "peer-c", t0.Add(time.Minute)))

	items := s.Conversations()
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
	assertSortedDescNoDupes(t, items)
}

func TestApplyIncomingMessageFromLocalSenderDoesNotIncrement(t *testing.T) {
	t0 := time.Now().Truncate(time.Second)
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{conv("a", t0, 0)})

	s.ApplyIncomingMessage("a", msg("m1", "a", localUser, t0.Add(time.Second)))

	if got, _ := s.Get("a"); got.UnreadCount != 0 {
		t.Fatalf("expected unread 0 for own message, got %d", got.UnreadCount)
	}
}

func TestApplyIncomingMessageDuplicateDeliveryCountsOnce(t *testing.T) {
	t0 := time.Now().Truncate(time.Second)
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{conv("a", t0, 0)})

	event := msg("m1", "a", "peer-a", t0.Add(time.Second))
	s.ApplyIncomingMessage("a", event)
	s.ApplyIncomingMessage("a", event)

	if got, _ := s.Get("a"); got.UnreadCount != 1 {
		t.Fatalf("expected unread 1 after duplicate delivery, got %d", got.UnreadCount)
	}
}

func TestApplyIncomingMessageUnknownConversation(t *testing.T) {
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{conv("a", time.Now(), 0)})

	if handled := s.ApplyIncomingMessage("ghost", msg("m1", "ghost", "x", time.Now())); handled {
		t.Fatal("expected unknown conversation to report handled=false")
	}
	if s.Len() != 1 {
		t.Fatalf("expected store untouched, got %d items", s.Len())
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{conv("a", time.Now(), 5)})

	s.MarkRead("a")
	s.MarkRead("a")

	if got, _ := s.Get("a"); got.UnreadCount != 0 {
		t.Fatalf("expected unread 0 after repeated MarkRead, got %d", got.UnreadCount)
	}
}

func TestSetUnreadClampsNegative(t *testing.T) {
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{conv("a", time.Now(), 2)})

	s.SetUnread("a", 7)
	if got, _ := s.Get("a"); got.UnreadCount != 7 {
		t.Fatalf("expected unread 7, got %d", got.UnreadCount)
	}

	s.SetUnread("a", -1)
	if got, _ := s.Get("a"); got.UnreadCount != 0 {
		t.Fatalf("expected clamped unread 0, got %d", got.UnreadCount)
	}
}

func TestApplyStatusChangeUpdatesParticipant(t *testing.T) {
	t0 := time.Now().Truncate(time.Second)
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{conv("a", t0, 0)})

	seen := t0.Add(-time.Hour)
	s.ApplyStatusChange("peer-a", true, &seen)

	got, _ := s.Get("a")
	if !got.Participant.Online {
		t.Fatal("expected participant online")
	}
	if got.Participant.LastSeen == nil || !got.Participant.LastSeen.Equal(seen) {
		t.Fatal("expected lastSeen to be updated")
	}
}

func TestFetchThenEventsKeepsInvariant(t *testing.T) {
	// Property 1: any applyFetch followed by any number of
	// applyIncomingMessage calls keeps the list sorted and duplicate-free.
	t0 := time.Now().Truncate(time.Second)
	s := NewConversationStore(localUser)
	s.ApplyFetch([]chat.Conversation{
		conv("a", t0, 0),
		conv("b", t0.Add(-time.Minute), 1),
		conv("c", t0.Add(-2*time.Minute), 0),
		conv("d", t0.Add(-3*time.Minute), 4),
	})

	events := []struct {
		conv string
		at   time.Time
	}{
		{"d", t0.Add(time.Second)},
		{"b", t0.Add(2 * time.Second)},
		{"d", t0.Add(3 * time.Second)},
		{"a", t0.Add(4 * time.Second)},
		{"ghost", t0.Add(5 * time.Second)},
	}
	for i, ev := range events {
		s.ApplyIncomingMessage(ev.conv, msg(
			"ev-"+ev.conv+"-"+strconv.Itoa(i), ev.conv, "peer", ev.at))
		assertSortedDescNoDupes(t, s.Conversations())
	}

	if s.Len() != 4 {
		t.Fatalf("expected 4 conversations, got %d", s.Len())
	}
	if items := s.Conversations(); items[0].ID != "a" {
		t.Fatalf("expected a first after last event, got %s", items[0].ID)
	}
}
