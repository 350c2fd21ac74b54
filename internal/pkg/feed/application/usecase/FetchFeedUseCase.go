package usecase

import (
	"context"
	"fmt"

	"github.com/Sayed1-11/Social-Media--sub000/internal/infrastructure/httpapi/port"
	feed "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/feed/domain"
)

// FetchFeedUseCase loads one page of the home feed plus the stories rail.
// A stories failure degrades gracefully: the feed still renders without the
// rail rather than aborting the whole screen.
// One use case per file.
type FetchFeedUseCase struct {
	API port.FeedAPI
}

func NewFetchFeedUseCase(api port.FeedAPI) *FetchFeedUseCase {
	return &FetchFeedUseCase{API: api}
}

// FeedPage is the result of one fetch.
type FeedPage struct {
	Posts   []feed.Post
	Stories []feed.Story
}

// Execute fetches posts (required) and stories (best effort).
func (uc *FetchFeedUseCase) Execute(ctx context.Context, page, limit int) (FeedPage, error) {
	posts, err := uc.API.ListPosts(ctx, page, limit)
	if err != nil {
		return FeedPage{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	stories, err := uc.API.ListStories(ctx)
	if err != nil {
		stories = nil
	}

	return FeedPage{Posts: posts, Stories: stories}, nil
}
