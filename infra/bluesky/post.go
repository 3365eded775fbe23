package bluesky

import (
	"context"
	"errors"
	"fmt"

	"github.com/CrestNiraj12/skyterm/domain"
)

// postService implements app.PostService using the Bluesky API.
type postService struct {
	client *Client
	self   Identity
}

// NewPostService creates a PostService backed by Bluesky.
func NewPostService(client *Client, self Identity) *postService {
	return &postService{client: client, self: self}
}

var errNotOwnPost = errors.New("post belongs to another account")

// Delete removes the post record identified by uri from the user's repo.
func (s *postService) Delete(ctx context.Context, uri string) error {
	u, err := parseATURI(uri)
	if err != nil {
		return err
	}
	if u.Collection != postCollection || u.RKey == "" {
		return fmt.Errorf("%w: not a post: %q", domain.ErrInvalidURI, uri)
	}
	if u.Authority != s.self.DID() {
		return errNotOwnPost
	}

	body := map[string]string{
		"repo":       u.Authority,
		"collection": postCollection,
		"rkey":       u.RKey,
	}
	if _, err := s.client.Procedure(ctx, "com.atproto.repo.deleteRecord", body); err != nil {
		return &domain.RemoteError{Op: "deleting post", Err: err}
	}
	return nil
}
