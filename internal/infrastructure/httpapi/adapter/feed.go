package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	feed "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/domain"
)

// Ensure interface compliance at compile time
var _ port.FeedAPI = (*Client)(nil)

func (c *Client) ListPosts(ctx context.Context, page, limit int) ([]feed.Post, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	var out []feed.Post
	path := fmt.Sprintf("/api/v1/posts?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListStories(ctx context.Context) ([]feed.Story, error) {
	var out []feed.Story
	if err := c.do(ctx, http.MethodGet, "/api/v1/stories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LikePost(ctx context.Context, postID string) (feed.Post, error) {
	var out feed.Post
	path := "/api/v1/posts/" + url.PathEscape(postID) + "/like"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return feed.Post{}, err
	}
	return out, nil
}

// commentRequest is the DTO for the comment endpoint.
type commentRequest struct {
	Text string `json:"text"`
}

func (c *Client) CommentPost(ctx context.Context, postID, text string) (feed.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return feed.Comment{}, fmt.Errorf("api: comment text is required")
	}
	var out feed.Comment
	path := "/api/v1/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, commentRequest{Text: text}, &out); err != nil {
		return feed.Comment{}, err
	}
	return out, nil
}

func (c *Client) SharePost(ctx context.Context, postID string) error {
	path := "/api/v1/posts/" + url.PathEscape(postID) + "/share"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}
