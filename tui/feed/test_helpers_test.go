package feed

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skyterm/app/aggregate"
	"github.com/CrestNiraj12/skyterm/domain"
)

type stubPager struct {
	mu         sync.Mutex
	initial    []aggregate.Entry
	more       []aggregate.Entry
	err        error
	deleteOK   bool
	afterDel   []aggregate.Entry
	initCalls  int
	moreCalls  int
	deleted    []string
	lastViewed aggregate.View
}

func (s *stubPager) LoadInitial(_ context.Context, v aggregate.View) ([]aggregate.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initCalls++
	s.lastViewed = v
	return s.initial, s.err
}

func (s *stubPager) LoadMore(_ context.Context, v aggregate.View) ([]aggregate.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moreCalls++
	s.lastViewed = v
	return s.more, s.err
}

func (s *stubPager) DeletePost(_ context.Context, _ aggregate.View, uri string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, uri)
	return s.deleteOK, nil
}

func (s *stubPager) Sequence(aggregate.View) []aggregate.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.afterDel
}

type stubResolver struct {
	handles map[string]string
	calls   []string
}

func (s *stubResolver) ResolveHandle(_ context.Context, did string) string {
	s.calls = append(s.calls, did)
	if h, ok := s.handles[did]; ok {
		return h
	}
	return domain.UnknownHandle
}

type failingOpener struct{}

func (failingOpener) Cmd(string) (*exec.Cmd, error) { return nil, errors.New("nope") }

var fixedNow = time.Date(2024, time.March, 1, 18, 0, 0, 0, time.UTC)

func uri(id string) string { return "at://did:plc:" + id + "/app.bsky.feed.post/" + id }

func makePost(id, authorDID string) domain.Post {
	return domain.Post{
		URI:          uri(id),
		AuthorDID:    authorDID,
		AuthorHandle: handleFor(authorDID),
		Text:         "post " + id,
		CreatedAt:    fixedNow.Add(-time.Hour),
		URL:          "https://bsky.app/profile/x/post/" + id,
	}
}

func makeReply(id, authorDID, parentID, parentDID string) domain.Post {
	p := makePost(id, authorDID)
	p.Reply = &domain.ReplyRef{ParentURI: uri(parentID), ParentAuthorDID: parentDID}
	return p
}

func handleFor(did string) string {
	if did == "" {
		return ""
	}
	return did[len("did:plc:"):] + ".test"
}

func top(p domain.Post) aggregate.Entry   { return aggregate.Entry{Kind: aggregate.KindTopLevel, Post: p} }
func reply(p domain.Post) aggregate.Entry { return aggregate.Entry{Kind: aggregate.KindReply, Post: p} }
func marker() aggregate.Entry             { return aggregate.Entry{Kind: aggregate.KindLoadMore} }

func newTestModel(p *stubPager, r *stubResolver) Model {
	var resolver HandleResolver
	if r != nil {
		resolver = r
	}
	m := New(Deps{Pager: p, Resolver: resolver, Opener: failingOpener{}, View: aggregate.ViewTimeline})
	m.now = func() time.Time { return fixedNow }
	return m
}

// loaded returns the model after its initial load has been applied.
func loaded(m Model) Model {
	msg := m.loadInitial()()
	m, _ = m.Update(msg)
	return m
}

func keyPress(r string) tea.KeyMsg {
	switch r {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}
