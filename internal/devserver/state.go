package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
	feed "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/domain"
)

// conversation is the server-side record behind the per-user summary rows.
type conversation struct {
	ID           string
	Participants [2]string
	Messages     []chat.Message
	Unread       map[string]int
	UpdatedAt    time.Time
}

// State is the in-memory world of the development server. Everything lives for
// the process lifetime only; restarting the server resets it to the seed data.
type State struct {
	mu            sync.Mutex
	users         map[string]chat.User
	conversations map[string]*conversation
	notifications map[string][]chat.Notification
	posts         []feed.Post
	stories       []feed.Story
}

func NewState() *State {
	return &State{
		users:         make(map[string]chat.User),
		conversations: make(map[string]*conversation),
		notifications: make(map[string][]chat.Notification),
	}
}

// Seed loads a small fixture world: a few users, one conversation per peer
// with some history, a feed page and a stories rail.
func (s *State) Seed(localUserID string) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	local := chat.User{ID: localUserID, Username: localUserID, Online: true}
	alice := chat.User{ID: "alice", Username: "alice", FullName: "Alice Rahman", Online: true}
	bob := chat.User{ID: "bob", Username: "bob", FullName: "Bob Chowdhury"}
	seen := now.Add(-25 * time.Minute)
	bob.LastSeen = &seen

	for _, u := range []chat.User{local, alice, bob} {
		s.users[u.ID] = u
	}

	c1 := &conversation{
		ID:           "conv-alice",
		Participants: [2]string{localUserID, "alice"},
		Unread:       map[string]int{localUserID: 1},
		UpdatedAt:    now.Add(-10 * time.Minute),
		Messages: []chat.Message{
			{
				ID: "m-100", ConversationID: "conv-alice", SenderID: localUserID,
				Content: "Did you see the match?", Type: chat.MessageTypeText,
				CreatedAt: now.Add(-time.Hour), Status: chat.StatusRead,
				ReadBy: []string{"alice"},
			},
			{
				ID: "m-101", ConversationID: "conv-alice", SenderID: "alice",
				Content: "Yes! Unreal finish.", Type: chat.MessageTypeText,
				CreatedAt: now.Add(-10 * time.Minute), Status: chat.StatusDelivered,
			},
		},
	}
	c2 := &conversation{
		ID:           "conv-bob",
		Participants: [2]string{localUserID, "bob"},
		Unread:       map[string]int{},
		UpdatedAt:    now.Add(-2 * time.Hour),
		Messages: []chat.Message{
			{
				ID: "m-200", ConversationID: "conv-bob", SenderID: "bob",
				Content: "Lunch tomorrow?", Type: chat.MessageTypeText,
				CreatedAt: now.Add(-2 * time.Hour), Status: chat.StatusRead,
				ReadBy: []string{localUserID},
			},
		},
	}
	s.conversations[c1.ID] = c1
	s.conversations[c2.ID] = c2

	s.notifications[localUserID] = []chat.Notification{
		{
			ID: "n-1", Type: chat.NotificationLike, Actor: alice,
			Text: "alice liked your post", TargetID: "post-1",
			CreatedAt: now.Add(-30 * time.Minute),
		},
	}

	s.posts = []feed.Post{
		{
			ID: "post-1", Author: alice, Content: "Sunset from the rooftop",
			Likes: []string{"bob"}, Shares: 2, CreatedAt: now.Add(-3 * time.Hour),
		},
		{
			ID: "post-2", Author: bob, Content: "New ramen place is great",
			CreatedAt: now.Add(-5 * time.Hour),
		},
	}
	s.stories = []feed.Story{
		{
			ID: "story-1", Author: alice, MediaURL: "https://cdn.example/story-1.jpg",
			CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(23 * time.Hour),
		},
	}
}

// ConversationsFor builds the summary rows visible to userID, newest first.
func (s *State) ConversationsFor(userID string) []chat.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []chat.Conversation
	for _, c := range s.conversations {
		peer, ok := c.peerOf(userID)
		if !ok {
			continue
		}
		row := chat.Conversation{
			ID:          c.ID,
			Participant: s.users[peer],
			UnreadCount: c.Unread[userID],
			UpdatedAt:   c.UpdatedAt,
		}
		if n := len(c.Messages); n > 0 {
			last := c.Messages[n-1]
			row.LastMessage = &last
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// MessagesOf returns the full history of one conversation, oldest first.
func (s *State) MessagesOf(conversationID, userID string) ([]chat.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[conversationID]
	if !ok {
		return nil, false
	}
	if _, member := c.peerOf(userID); !member {
		return nil, false
	}
	out := make([]chat.Message, len(c.Messages))
	copy(out, c.Messages)
	return out, true
}

// AppendMessage stores a new message from senderID, assigns the server id and
// bumps the peer's unread count. The peer id is returned for event fan-out.
func (s *State) AppendMessage(conversationID, senderID, content string, msgType chat.MessageType, clientKey string) (chat.Message, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[conversationID]
	if !ok {
		return chat.Message{}, "", false
	}
	peer, member := c.peerOf(senderID)
	if !member {
		return chat.Message{}, "", false
	}
	if msgType == "" {
		msgType = chat.MessageTypeText
	}

	msg := chat.Message{
		ID:             "srv-" + uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           msgType,
		CreatedAt:      time.Now().UTC(),
		Status:         chat.StatusDelivered,
		ClientKey:      clientKey,
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.CreatedAt
	c.Unread[peer]++
	return msg, peer, true
}

// MarkRead resets readerID's unread count and stamps the peer's messages as
// read. The peer id is returned for event fan-out.
func (s *State) MarkRead(conversationID, readerID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[conversationID]
	if !ok {
		return "", false
	}
	peer, member := c.peerOf(readerID)
	if !member {
		return "", false
	}

	c.Unread[readerID] = 0
	for i := range c.Messages {
		m := &c.Messages[i]
		if m.SenderID == readerID {
			continue
		}
		if !m.ReadByUser(readerID) {
			m.ReadBy = append(m.ReadBy, readerID)
		}
		m.Status = chat.StatusRead
	}
	return peer, true
}

// UnreadFor snapshots userID's per-conversation unread counts.
func (s *State) UnreadFor(userID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int)
	for id, c := range s.conversations {
		if _, member := c.peerOf(userID); member {
			out[id] = c.Unread[userID]
		}
	}
	return out
}

// PeerOf resolves the other participant of a conversation userID belongs to.
func (s *State) PeerOf(conversationID, userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[conversationID]
	if !ok {
		return "", false
	}
	return c.peerOf(userID)
}

// SearchUsers matches usernames and full names, case-insensitive substring.
func (s *State) SearchUsers(query string) []chat.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []chat.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// NotificationsFor lists userID's notification rows, newest first.
func (s *State) NotificationsFor(userID string) []chat.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.notifications[userID]
	out := make([]chat.Notification, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// AddNotification stores a notification row for userID and returns it.
func (s *State) AddNotification(userID string, n chat.Notification) chat.Notification {
	if n.ID == "" {
		n.ID = "n-" + uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.notifications[userID] = append(s.notifications[userID], n)
	s.mu.Unlock()
	return n
}

// Posts returns one feed page, newest first.
func (s *State) Posts(page, limit int) []feed.Post {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]feed.Post, len(s.posts))
	copy(sorted, s.posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start >= len(sorted) {
		return nil
	}
	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end]
}

// Stories returns the non-expired stories rail.
func (s *State) Stories() []feed.Story {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []feed.Story
	for _, st := range s.stories {
		if st.ExpiresAt.After(now) {
			out = append(out, st)
		}
	}
	return out
}

// LikePost toggles userID's like and returns the updated post and its author.
func (s *State) LikePost(postID, userID string) (feed.Post, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		p := &s.posts[i]
		if p.ID != postID {
			continue
		}
		if p.LikedBy(userID) {
			for j, id := range p.Likes {
				if id == userID {
					p.Likes = append(p.Likes[:j], p.Likes[j+1:]...)
					break
				}
			}
		} else {
			p.Likes = append(p.Likes, userID)
		}
		return *p, p.Author.ID, true
	}
	return feed.Post{}, "", false
}

// CommentPost appends a comment and returns it with the post author for
// notification fan-out.
func (s *State) CommentPost(postID, userID, text string) (feed.Comment, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		p := &s.posts[i]
		if p.ID != postID {
			continue
		}
		cm := feed.Comment{
			ID:        "cm-" + uuid.NewString(),
			Author:    s.users[userID],
			Text:      text,
			CreatedAt: time.Now().UTC(),
		}
		p.Comments = append(p.Comments, cm)
		return cm, p.Author.ID, true
	}
	return feed.Comment{}, "", false
}

// SharePost bumps the share counter and returns the post author.
func (s *State) SharePost(postID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Shares++
			return s.posts[i].Author.ID, true
		}
	}
	return "", false
}

// User looks up a seeded user.
func (s *State) User(id string) (chat.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// EnsureUser registers an unknown user id on first contact so ad-hoc tokens
// work against the dev server.
func (s *State) EnsureUser(id string) chat.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		return u
	}
	u := chat.User{ID: id, Username: id, Online: true}
	s.users[id] = u
	return u
}

func (c *conversation) peerOf(userID string) (string, bool) {
	switch userID {
	case c.Participants[0]:
		return c.Participants[1], true
	case c.Participants[1]:
		return c.Participants[0], true
	default:
		return "", false
	}
}
