package app

import (
	"context"

	"github.com/CrestNiraj12/skyterm/domain"
)

// AccountService provides information about the authenticated user and
// other accounts.
type AccountService interface {
	// CurrentProfile returns the authenticated user's profile counters.
	CurrentProfile(ctx context.Context) (domain.Profile, error)

	// ResolveHandle maps an account DID to its handle. It never fails:
	// unresolvable accounts come back as domain.UnknownHandle.
	ResolveHandle(ctx context.Context, did string) string

	// Follows lists up to limit accounts the authenticated user follows.
	Follows(ctx context.Context, limit int) ([]domain.Follow, error)
}
