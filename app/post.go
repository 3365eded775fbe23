package app

import "context"

// PostService deletes posts on the social backend.
type PostService interface {
	// Delete removes a post by its URI.
	Delete(ctx context.Context, uri string) error
}
