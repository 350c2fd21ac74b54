package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	feed "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/domain"
)

// ReactToPostUseCase covers the three post reactions: like, comment, share.
// One use case per file.
type ReactToPostUseCase struct {
	API port.FeedAPI
}

func NewReactToPostUseCase(api port.FeedAPI) *ReactToPostUseCase {
	return &ReactToPostUseCase{API: api}
}

// Like toggles the like on a post and returns the updated post.
func (uc *ReactToPostUseCase) Like(ctx context.Context, postID string) (feed.Post, error) {
	post, err := uc.API.LikePost(ctx, postID)
	if err != nil {
		return feed.Post{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return post, nil
}

// Comment validates the text locally, then posts it.
func (uc *ReactToPostUseCase) Comment(ctx context.Context, postID, text string) (feed.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return feed.Comment{}, ErrEmptyComment
	}
	comment, err := uc.API.CommentPost(ctx, postID, strings.TrimSpace(text))
	if err != nil {
		return feed.Comment{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return comment, nil
}

// Share records a share of the post.
func (uc *ReactToPostUseCase) Share(ctx context.Context, postID string) error {
	if err := uc.API.SharePost(ctx, postID); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}
