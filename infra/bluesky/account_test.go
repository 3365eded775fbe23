package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"

	"golang.org/x/time/rate"

	"github.com/CrestNiraj12/skyterm/domain"
)

func newTestAccounts(h http.Handler) *accountService {
	s := NewAccountService(newTestClient(h), me, nil)
	s.limiter = rate.NewLimiter(rate.Inf, 1)
	return s
}

func TestAccountService_CurrentProfile(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xrpc/app.bsky.actor.getProfile" || r.URL.Query().Get("actor") != "did:plc:me" {
			t.Fatalf("unexpected request: %s", r.URL)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"did": "did:plc:me", "handle": "me.bsky.social", "displayName": "Me",
			"followersCount": 1200, "followsCount": 300, "postsCount": 42,
		})
	})

	p, err := newTestAccounts(h).CurrentProfile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Handle != "me.bsky.social" || p.Followers != 1200 || p.Following != 300 || p.PostsCount != 42 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestAccountService_ResolveHandle(t *testing.T) {
	calls := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("actor") {
		case "did:plc:bob":
			_, _ = io.WriteString(w, `{"did":"did:plc:bob","handle":"bob.test"}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"InvalidRequest","message":"Profile not found"}`)
		}
	})
	s := newTestAccounts(h)
	ctx := context.Background()

	if got := s.ResolveHandle(ctx, "did:plc:me"); got != "me.bsky.social" {
		t.Fatalf("self handle: %q", got)
	}
	if calls != 0 {
		t.Fatalf("self lookup must not hit the network, got %d calls", calls)
	}
	if got := s.ResolveHandle(ctx, "did:plc:bob"); got != "bob.test" {
		t.Fatalf("bob handle: %q", got)
	}
	if got := s.ResolveHandle(ctx, "did:plc:bob"); got != "bob.test" {
		t.Fatalf("cached bob handle: %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected one lookup for bob, got %d", calls)
	}
	if got := s.ResolveHandle(ctx, "did:plc:ghost"); got != domain.UnknownHandle {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := s.ResolveHandle(ctx, ""); got != domain.UnknownHandle {
		t.Fatalf("expected fallback for empty did, got %q", got)
	}
}

func TestAccountService_FollowsPaginatesAndSeedsCache(t *testing.T) {
	var cursors []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xrpc/app.bsky.graph.getFollows" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		cursors = append(cursors, q.Get("cursor"))
		n, _ := strconv.Atoi(q.Get("limit"))
		start := len(cursors)*10 - 10
		follows := make([]map[string]any, 0, n)
		for i := 0; i < n && i < 2; i++ {
			id := start + i
			follows = append(follows, map[string]any{
				"did":       fmt.Sprintf("did:plc:f%d", id),
				"handle":    fmt.Sprintf("f%d.test", id),
				"createdAt": "2024-01-01T00:00:00Z",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cursor":  fmt.Sprintf("page%d", len(cursors)),
			"follows": follows,
		})
	})
	s := newTestAccounts(h)

	out, err := s.Follows(context.Background(), 5)
	if err != nil {
		t.Fatalf("follows: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("expected 5 follows, got %d", len(out))
	}
	if len(cursors) != 3 || cursors[0] != "" || cursors[1] != "page1" || cursors[2] != "page2" {
		t.Fatalf("unexpected cursor sequence: %v", cursors)
	}
	if out[0].CreatedAt.IsZero() {
		t.Fatal("createdAt not parsed")
	}

	if got := s.ResolveHandle(context.Background(), "did:plc:f10"); got != "f10.test" {
		t.Fatalf("follows should seed the handle cache, got %q", got)
	}
	if len(cursors) != 3 {
		t.Fatalf("cached handle must not trigger a request")
	}
}

func TestAccountService_FollowsHonorsContext(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request")
	})
	s := NewAccountService(newTestClient(h), me, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Follows(ctx, 10); err == nil {
		t.Fatal("expected context error")
	}
}
