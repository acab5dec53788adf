package app

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/glabrego/memegallery/internal/gallery"
	"github.com/glabrego/memegallery/internal/reddit"
)

type RedditClient interface {
	ListPosts(ctx context.Context, after string) (reddit.Listing, error)
}

// Service turns listing pages into gallery pages.
type Service struct {
	client RedditClient
}

func NewService(client RedditClient) *Service {
	return &Service{client: client}
}

// FetchPage fetches the page at cursor. Every call issues its own upstream
// request; callers are expected to keep at most one in flight.
func (s *Service) FetchPage(ctx context.Context, cursor gallery.Cursor) (gallery.FeedPage, error) {
	if cursor.Exhausted() {
		return gallery.FeedPage{}, gallery.ErrExhausted
	}
	after, _ := cursor.Token()

	listing, err := s.client.ListPosts(ctx, after)
	if err != nil {
		return gallery.FeedPage{}, fmt.Errorf("fetch page after %q: %w", after, err)
	}
	return pageFromListing(listing), nil
}

func pageFromListing(listing reddit.Listing) gallery.FeedPage {
	return gallery.FeedPage{
		Items: lo.Map(listing.Posts, func(post reddit.Post, _ int) gallery.FeedItem {
			return itemFromPost(post)
		}),
		Next: gallery.NextCursor(listing.After),
	}
}

func itemFromPost(post reddit.Post) gallery.FeedItem {
	return gallery.FeedItem{
		ID:           post.Name,
		Title:        post.Title,
		ThumbnailURL: post.Thumbnail,
		FullImageURL: post.URL,
		Author:       post.Author,
		Permalink:    post.Permalink,
	}
}
