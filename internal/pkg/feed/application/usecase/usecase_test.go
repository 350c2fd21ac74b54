package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	feed "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/domain"
)

type fakeFeedAPI struct {
	posts      []feed.Post
	postsErr   error
	stories    []feed.Story
	storiesErr error
	likeErr    error
	comments   int
}

func (f *fakeFeedAPI) ListPosts(ctx context.Context, page, limit int) ([]feed.Post, error) {
	return f.posts, f.postsErr
}

func (f *fakeFeedAPI) ListStories(ctx context.Context) ([]feed.Story, error) {
	return f.stories, f.storiesErr
}

func (f *fakeFeedAPI) LikePost(ctx context.Context, postID string) (feed.Post, error) {
	if f.likeErr != nil {
		return feed.Post{}, f.likeErr
	}
	return feed.Post{ID: postID, Likes: []string{"me"}}, nil
}

func (f *fakeFeedAPI) CommentPost(ctx context.Context, postID, text string) (feed.Comment, error) {
	f.comments++
	return feed.Comment{ID: "cm-1", Text: text, CreatedAt: time.Now()}, nil
}

func (f *fakeFeedAPI) SharePost(ctx context.Context, postID string) error { return nil }

func TestFetchFeedReturnsPostsAndStories(t *testing.T) {
	api := &fakeFeedAPI{
		posts:   []feed.Post{{ID: "p1"}},
		stories: []feed.Story{{ID: "s1"}},
	}

	page, err := NewFetchFeedUseCase(api).Execute(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(page.Posts) != 1 || len(page.Stories) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFetchFeedDegradesWithoutStories(t *testing.T) {
	api := &fakeFeedAPI{
		posts:      []feed.Post{{ID: "p1"}},
		storiesErr: errors.New("stories service down"),
	}

	page, err := NewFetchFeedUseCase(api).Execute(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("stories failure must not abort the feed: %v", err)
	}
	if len(page.Posts) != 1 || page.Stories != nil {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFetchFeedPostsFailureIsFatal(t *testing.T) {
	api := &fakeFeedAPI{postsErr: errors.New("boom")}
	_, err := NewFetchFeedUseCase(api).Execute(context.Background(), 1, 20)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}

func TestCommentRejectsEmptyText(t *testing.T) {
	api := &fakeFeedAPI{}
	uc := NewReactToPostUseCase(api)

	_, err := uc.Comment(context.Background(), "p1", "   ")
	if !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
	if api.comments != 0 {
		t.Fatal("validation failure must not reach the network")
	}
}

func TestLikeWrapsBackendError(t *testing.T) {
	api := &fakeFeedAPI{likeErr: errors.New("denied")}
	uc := NewReactToPostUseCase(api)

	if _, err := uc.Like(context.Background(), "p1"); !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}
