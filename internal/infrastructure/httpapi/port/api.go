package port

import (
	"context"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
	feed "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/domain"
)

// ChatAPI is the messaging surface of the backend, as consumed by the chat
// use cases. Every call takes a context so a superseded fetch can be aborted
// and its result discarded.
type ChatAPI interface {
	ListConversations(ctx context.Context) ([]chat.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)

	// SendMessage posts an outgoing message and returns the server-confirmed
	// copy. The backend echoes the message's clientKey so optimistic entries
	// can be reconciled.
	SendMessage(ctx context.Context, conversationID string, m chat.Message) (chat.Message, error)

	MarkConversationRead(ctx context.Context, conversationID string) error
	SearchUsers(ctx context.Context, query string) ([]chat.User, error)
	ListNotifications(ctx context.Context) ([]chat.Notification, error)
}

// FeedAPI is the feed/stories surface of the backend.
type FeedAPI interface {
	ListPosts(ctx context.Context, page, limit int) ([]feed.Post, error)
	ListStories(ctx context.Context) ([]feed.Story, error)
	LikePost(ctx context.Context, postID string) (feed.Post, error)
	CommentPost(ctx context.Context, postID, text string) (feed.Comment, error)
	SharePost(ctx context.Context, postID string) error
}
