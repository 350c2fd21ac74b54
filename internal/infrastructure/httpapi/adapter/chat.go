package adapter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// Ensure interface compliance at compile time
var _ port.ChatAPI = (*Client)(nil)

func (c *Client) ListConversations(ctx context.Context) ([]chat.Conversation, error) {
	var out []chat.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/v1/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	var out []chat.Message
	path := "/api/v1/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// sendMessageRequest is the DTO for the send endpoint.
type sendMessageRequest struct {
	Content   string           `json:"content"`
	Type      chat.MessageType `json:"type"`
	ClientKey string           `json:"clientKey,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, conversationID string, m chat.Message) (chat.Message, error) {
	var out chat.Message
	path := "/api/v1/conversations/" + url.PathEscape(conversationID) + "/messages"
	req := sendMessageRequest{Content: m.Content, Type: m.Type, ClientKey: m.ClientKey}
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return chat.Message{}, err
	}
	return out, nil
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) error {
	path := "/api/v1/conversations/" + url.PathEscape(conversationID) + "/read"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]chat.User, error) {
	var out []chat.User
	path := "/api/v1/users/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListNotifications(ctx context.Context) ([]chat.Notification, error) {
	var out []chat.Notification
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
