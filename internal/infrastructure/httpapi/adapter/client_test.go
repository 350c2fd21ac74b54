package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

func respond(w http.ResponseWriter, status int, env any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestListConversationsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/conversations", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"_id": "c1", "unreadCount": 2, "updatedAt": time.Now().UTC()},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, func() (string, bool) { return "tok-1", true })
	convs, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "c1", convs[0].ID)
	assert.Equal(t, 2, convs[0].UnreadCount)
}

func TestServerFailureEnvelopeBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusForbidden, map[string]any{
			"success": false,
			"message": "you are not a participant",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.ListMessages(context.Background(), "c1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "you are not a participant", apiErr.Message)
}

func TestNonSuccessEnvelopeWith200(t *testing.T) {
	// Some endpoints report failure in the envelope with a 200 status.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{"success": false, "message": "nope"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	err := client.MarkConversationRead(context.Background(), "c1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "nope", apiErr.Message)
}

func TestSendMessageEchoesClientKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Content)

		respond(w, http.StatusCreated, map[string]any{
			"success": true,
			"data": chat.Message{
				ID:             "srv-1",
				ConversationID: "c1",
				SenderID:       "me",
				Content:        req.Content,
				Type:           req.Type,
				CreatedAt:      time.Now().UTC(),
				Status:         chat.StatusSent,
				ClientKey:      req.ClientKey,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	out, err := client.SendMessage(context.Background(), "c1", chat.Message{
		Content: "hello", Type: chat.MessageTypeText, ClientKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", out.ID)
	assert.Equal(t, "key-1", out.ClientKey)
}

func TestRequestHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewClient(server.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListConversations(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a b&c", r.URL.Query().Get("q"))
		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []chat.User{{ID: "u1", Username: "abc"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	users, err := client.SearchUsers(context.Background(), "a b&c")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}
