package app

import (
	"context"

	"github.com/CrestNiraj12/skyterm/domain"
)

// FeedSource fetches cursor-delimited pages of posts.
// An empty cursor requests the first page. Failures are *domain.RemoteError.
type FeedSource interface {
	// FetchTimeline returns a page of the authenticated user's home timeline.
	FetchTimeline(ctx context.Context, cursor string) (domain.FeedPage, error)

	// FetchAuthorFeed returns a page of the authenticated user's own posts.
	FetchAuthorFeed(ctx context.Context, cursor string) (domain.FeedPage, error)
}
