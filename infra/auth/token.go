package auth

import "context"

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// Refresher is a TokenProvider whose token can be renewed after expiry.
type Refresher interface {
	TokenProvider
	Refresh(ctx context.Context) error
}
