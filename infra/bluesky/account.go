package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/CrestNiraj12/skyterm/domain"
)

const maxFollowsPage = 100

// accountService implements app.AccountService using the Bluesky API.
type accountService struct {
	client  *Client
	self    Identity
	limiter *rate.Limiter // Paces follow page requests.
	log     *log.Logger

	mu      sync.Mutex
	handles map[string]string // DID -> handle
}

// NewAccountService creates an AccountService backed by Bluesky.
// A nil logger discards output.
func NewAccountService(client *Client, self Identity, logger *log.Logger) *accountService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &accountService{
		client:  client,
		self:    self,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		log:     logger.WithPrefix("bluesky"),
		handles: make(map[string]string),
	}
}

type profileDetailed struct {
	DID            string `json:"did"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName"`
	FollowersCount int    `json:"followersCount"`
	FollowsCount   int    `json:"followsCount"`
	PostsCount     int    `json:"postsCount"`
}

func (s *accountService) getProfile(ctx context.Context, actor string) (profileDetailed, error) {
	params := url.Values{}
	params.Set("actor", actor)
	data, err := s.client.Query(ctx, "app.bsky.actor.getProfile", params)
	if err != nil {
		return profileDetailed{}, err
	}
	var p profileDetailed
	if err := json.Unmarshal(data, &p); err != nil {
		return profileDetailed{}, fmt.Errorf("parsing profile: %w", err)
	}
	return p, nil
}

func (s *accountService) CurrentProfile(ctx context.Context) (domain.Profile, error) {
	p, err := s.getProfile(ctx, s.self.DID())
	if err != nil {
		return domain.Profile{}, &domain.RemoteError{Op: "fetching profile", Err: err}
	}
	handle := sanitizeForTerminal(p.Handle)
	s.remember(p.DID, handle)
	return domain.Profile{
		DID:         p.DID,
		Handle:      handle,
		DisplayName: sanitizeForTerminal(p.DisplayName),
		Followers:   p.FollowersCount,
		Following:   p.FollowsCount,
		PostsCount:  p.PostsCount,
	}, nil
}

// ResolveHandle maps a DID to a handle. Failures resolve to
// domain.UnknownHandle and are not cached.
func (s *accountService) ResolveHandle(ctx context.Context, did string) string {
	if did == "" {
		return domain.UnknownHandle
	}
	if did == s.self.DID() && s.self.Handle() != "" {
		return s.self.Handle()
	}
	s.mu.Lock()
	h, ok := s.handles[did]
	s.mu.Unlock()
	if ok {
		return h
	}

	p, err := s.getProfile(ctx, did)
	if err != nil || p.Handle == "" {
		s.log.Debug("handle lookup failed", "did", did, "err", err)
		return domain.UnknownHandle
	}
	h = sanitizeForTerminal(p.Handle)
	s.remember(did, h)
	return h
}

// Follows lists up to limit accounts the user follows, newest first.
func (s *accountService) Follows(ctx context.Context, limit int) ([]domain.Follow, error) {
	if limit <= 0 {
		return nil, nil
	}
	var (
		out    []domain.Follow
		cursor string
	)
	for len(out) < limit {
		if err := s.limiter.Wait(ctx); err != nil {
			return out, err
		}

		params := url.Values{}
		params.Set("actor", s.self.DID())
		params.Set("limit", strconv.Itoa(min(maxFollowsPage, limit-len(out))))
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		data, err := s.client.Query(ctx, "app.bsky.graph.getFollows", params)
		if err != nil {
			return out, &domain.RemoteError{Op: "fetching follows", Err: err}
		}

		var page struct {
			Cursor  string `json:"cursor"`
			Follows []struct {
				DID       string `json:"did"`
				Handle    string `json:"handle"`
				CreatedAt string `json:"createdAt"`
			} `json:"follows"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return out, &domain.RemoteError{Op: "fetching follows", Err: fmt.Errorf("parsing follows: %w", err)}
		}

		for _, f := range page.Follows {
			if len(out) == limit {
				break
			}
			handle := sanitizeForTerminal(f.Handle)
			s.remember(f.DID, handle)
			out = append(out, domain.Follow{
				DID:       f.DID,
				Handle:    handle,
				CreatedAt: parseTimestamp(f.CreatedAt),
			})
		}

		if page.Cursor == "" || len(page.Follows) == 0 {
			break
		}
		cursor = page.Cursor
	}
	s.log.Debug("follows loaded", "count", len(out))
	return out, nil
}

func (s *accountService) remember(did, handle string) {
	if did == "" || handle == "" {
		return
	}
	s.mu.Lock()
	s.handles[did] = handle
	s.mu.Unlock()
}
