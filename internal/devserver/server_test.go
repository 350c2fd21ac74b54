package devserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/adapter"
	rtadapter "github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/realtime/adapter"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	state := NewState()
	state.Seed("u1")
	srv := New(state, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Shutdown()
		ts.Close()
	})
	return ts
}

func apiClient(ts *httptest.Server, userID string) *httpadapter.Client {
	return httpadapter.NewClient(ts.URL, func() (string, bool) { return userID, true })
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dialChannel(t *testing.T, ts *httptest.Server, userID string) *rtadapter.WSChannel {
	t.Helper()

	ch := rtadapter.NewWSChannel(wsURL(ts), rtadapter.RetryPolicy{
		Attempts:       2,
		Delay:          10 * time.Millisecond,
		ConnectTimeout: time.Second,
	}, nil)
	t.Cleanup(func() { _ = ch.Close() })
	return ch
}

func TestRequiresBearerToken(t *testing.T) {
	ts := newTestServer(t)

	client := httpadapter.NewClient(ts.URL, nil)
	_, err := client.ListConversations(context.Background())

	var apiErr *httpadapter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestSeededConversationList(t *testing.T) {
	ts := newTestServer(t)

	convs, err := apiClient(ts, "u1").ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// Newest first; the alice conversation carries the seeded unread.
	assert.Equal(t, "conv-alice", convs[0].ID)
	assert.Equal(t, 1, convs[0].UnreadCount)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "alice", convs[0].LastMessage.SenderID)
}

func TestSendMessageEchoesClientKeyAndNotifiesPeer(t *testing.T) {
	ts := newTestServer(t)

	// u1 listens on the realtime channel; alice sends over REST.
	ch := dialChannel(t, ts, "u1")

	delivered := make(chan chat.NewMessagePayload, 1)
	ch.On(chat.EventNewMessage, func(data json.RawMessage) {
		var p chat.NewMessagePayload
		if json.Unmarshal(data, &p) == nil {
			delivered <- p
		}
	})
	unread := make(chan chat.UnreadCountPayload, 1)
	ch.On(chat.EventUnreadCountUpdated, func(data json.RawMessage) {
		var p chat.UnreadCountPayload
		if json.Unmarshal(data, &p) == nil {
			unread <- p
		}
	})
	require.NoError(t, ch.Connect(context.Background(), "u1"))

	out, err := apiClient(ts, "alice").SendMessage(context.Background(), "conv-alice", chat.Message{
		Content:   "are you around?",
		Type:      chat.MessageTypeText,
		ClientKey: "ck-42",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.ID, "srv-"))
	assert.Equal(t, "ck-42", out.ClientKey)
	assert.Equal(t, chat.StatusDelivered, out.Status)

	select {
	case p := <-delivered:
		assert.Equal(t, "conv-alice", p.ConversationID)
		assert.Equal(t, out.ID, p.Message.ID)
		assert.Equal(t, "ck-42", p.Message.ClientKey)
	case <-time.After(2 * time.Second):
		t.Fatal("peer never received new_message")
	}

	select {
	case p := <-unread:
		assert.Equal(t, "conv-alice", p.ConversationID)
		assert.Equal(t, 2, p.UnreadCount, "seeded unread plus the new message")
	case <-time.After(2 * time.Second):
		t.Fatal("peer never received unread_count_updated")
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	ts := newTestServer(t)

	_, err := apiClient(ts, "u1").SendMessage(context.Background(), "conv-alice", chat.Message{
		Content: "   ",
		Type:    chat.MessageTypeText,
	})

	var apiErr *httpadapter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestMarkReadNotifiesSender(t *testing.T) {
	ts := newTestServer(t)

	aliceCh := dialChannel(t, ts, "alice")
	read := make(chan chat.MessagesReadPayload, 1)
	aliceCh.On(chat.EventMessagesRead, func(data json.RawMessage) {
		var p chat.MessagesReadPayload
		if json.Unmarshal(data, &p) == nil {
			read <- p
		}
	})
	require.NoError(t, aliceCh.Connect(context.Background(), "alice"))

	require.NoError(t, apiClient(ts, "u1").MarkConversationRead(context.Background(), "conv-alice"))

	select {
	case p := <-read:
		assert.Equal(t, "conv-alice", p.ConversationID)
		assert.Equal(t, "u1", p.ReaderID)
	case <-time.After(2 * time.Second):
		t.Fatal("sender never received messages_read")
	}

	convs, err := apiClient(ts, "u1").ListConversations(context.Background())
	require.NoError(t, err)
	for _, c := range convs {
		assert.Zero(t, c.UnreadCount)
	}
}

func TestGetUnreadCountEmit(t *testing.T) {
	ts := newTestServer(t)

	ch := dialChannel(t, ts, "u1")

	var mu sync.Mutex
	counts := map[string]int{}
	got := make(chan struct{}, 4)
	ch.On(chat.EventUnreadCountUpdated, func(data json.RawMessage) {
		var p chat.UnreadCountPayload
		if json.Unmarshal(data, &p) == nil {
			mu.Lock()
			counts[p.ConversationID] = p.UnreadCount
			mu.Unlock()
			got <- struct{}{}
		}
	})
	require.NoError(t, ch.Connect(context.Background(), "u1"))
	require.NoError(t, ch.Emit(chat.EmitGetUnreadCount, struct{}{}))

	deadline := time.After(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-got:
		case <-deadline:
			t.Fatal("did not receive unread counts for both conversations")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, counts["conv-alice"])
	assert.Equal(t, 0, counts["conv-bob"])
}

func TestTypingForwardedToPeer(t *testing.T) {
	ts := newTestServer(t)

	u1 := dialChannel(t, ts, "u1")
	typing := make(chan chat.TypingPayload, 1)
	u1.On(chat.EventUserTyping, func(data json.RawMessage) {
		var p chat.TypingPayload
		if json.Unmarshal(data, &p) == nil {
			typing <- p
		}
	})
	require.NoError(t, u1.Connect(context.Background(), "u1"))

	alice := dialChannel(t, ts, "alice")
	require.NoError(t, alice.Connect(context.Background(), "alice"))
	require.NoError(t, alice.Emit(chat.EmitTypingStart, map[string]string{"conversationId": "conv-alice"}))

	select {
	case p := <-typing:
		assert.Equal(t, "alice", p.UserID)
		assert.True(t, p.Typing)
	case <-time.After(2 * time.Second):
		t.Fatal("peer never received user_typing")
	}
}

func TestFeedEndpoints(t *testing.T) {
	ts := newTestServer(t)
	client := apiClient(ts, "u1")
	ctx := context.Background()

	posts, err := client.ListPosts(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "post-1", posts[0].ID, "newest first")

	stories, err := client.ListStories(ctx)
	require.NoError(t, err)
	assert.Len(t, stories, 1)

	liked, err := client.LikePost(ctx, "post-1")
	require.NoError(t, err)
	assert.True(t, liked.LikedBy("u1"))

	// Liking again toggles off.
	unliked, err := client.LikePost(ctx, "post-1")
	require.NoError(t, err)
	assert.False(t, unliked.LikedBy("u1"))

	comment, err := client.CommentPost(ctx, "post-2", "looks tasty")
	require.NoError(t, err)
	assert.Equal(t, "looks tasty", comment.Text)

	require.NoError(t, client.SharePost(ctx, "post-2"))
}

func TestLikeDeliversNotificationToAuthor(t *testing.T) {
	ts := newTestServer(t)

	aliceCh := dialChannel(t, ts, "alice")
	notified := make(chan chat.Notification, 1)
	aliceCh.On(chat.EventNewNotification, func(data json.RawMessage) {
		var n chat.Notification
		if json.Unmarshal(data, &n) == nil {
			notified <- n
		}
	})
	require.NoError(t, aliceCh.Connect(context.Background(), "alice"))

	// post-1 is authored by alice; u1 likes it.
	_, err := apiClient(ts, "u1").LikePost(context.Background(), "post-1")
	require.NoError(t, err)

	select {
	case n := <-notified:
		assert.Equal(t, chat.NotificationLike, n.Type)
		assert.Equal(t, "u1", n.Actor.ID)
		assert.Equal(t, "post-1", n.TargetID)
	case <-time.After(2 * time.Second):
		t.Fatal("author never received new_notification")
	}

	rows, err := apiClient(ts, "alice").ListNotifications(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}
