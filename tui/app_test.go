package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skyterm/app/aggregate"
	"github.com/CrestNiraj12/skyterm/domain"
	"github.com/CrestNiraj12/skyterm/infra/config"
	"github.com/CrestNiraj12/skyterm/tui/confirm"
	"github.com/CrestNiraj12/skyterm/tui/feed"
)

type stubEngine struct {
	seq     map[aggregate.View][]aggregate.Entry
	deleted []string
}

func (s *stubEngine) LoadInitial(_ context.Context, v aggregate.View) ([]aggregate.Entry, error) {
	return s.seq[v], nil
}

func (s *stubEngine) LoadMore(_ context.Context, v aggregate.View) ([]aggregate.Entry, error) {
	return s.seq[v], nil
}

func (s *stubEngine) DeletePost(_ context.Context, v aggregate.View, uri string) (bool, error) {
	s.deleted = append(s.deleted, uri)
	kept := s.seq[v][:0:0]
	for _, en := range s.seq[v] {
		if en.Post.URI != uri {
			kept = append(kept, en)
		}
	}
	s.seq[v] = kept
	return true, nil
}

func (s *stubEngine) Sequence(v aggregate.View) []aggregate.Entry { return s.seq[v] }

type stubAccount struct{}

func (stubAccount) CurrentProfile(context.Context) (domain.Profile, error) {
	return domain.Profile{Handle: "me.test", Following: 1234, Followers: 56789}, nil
}
func (stubAccount) ResolveHandle(context.Context, string) string { return domain.UnknownHandle }
func (stubAccount) Follows(context.Context, int) ([]domain.Follow, error) {
	return nil, nil
}

func ownPost() domain.Post {
	return domain.Post{URI: "at://did:plc:me/app.bsky.feed.post/1", AuthorDID: "did:plc:me", AuthorHandle: "me.test", Text: "bye", IsOwn: true}
}

func newTestApp(t *testing.T) (App, *stubEngine, string) {
	t.Helper()
	eng := &stubEngine{seq: map[aggregate.View][]aggregate.Entry{
		aggregate.ViewTimeline: {{Kind: aggregate.KindTopLevel, Post: domain.Post{URI: "at://did:plc:x/app.bsky.feed.post/2", AuthorHandle: "x.test", Text: "hi"}}},
		aggregate.ViewMyPosts:  {{Kind: aggregate.KindTopLevel, Post: ownPost()}},
	}}
	statePath := filepath.Join(t.TempDir(), "ui_state.yaml")
	a := NewApp(Deps{
		Engine:    eng,
		Account:   stubAccount{},
		View:      aggregate.ViewTimeline,
		StatePath: statePath,
	})
	return a, eng, statePath
}

// run executes cmd and feeds the resulting app and feed messages back into
// the app. Status ticks are never followed.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		return a
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			a = run(t, a, c)
		}
		return a
	case feed.StatusMsg:
		updated, _ := a.Update(msg)
		return updated.(App)
	case feed.PageLoadedMsg, feed.DeletedMsg, feed.HandlesResolvedMsg, feed.DeleteRequestMsg,
		statsLoadedMsg, stateSavedMsg, confirm.ConfirmedMsg, confirm.CancelledMsg:
		updated, next := a.Update(msg)
		return run(t, updated.(App), next)
	}
	return a
}

func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	updated, cmd := a.Update(msg)
	return run(t, updated.(App), cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestApp_HeaderShowsViewAndStats(t *testing.T) {
	a, _, _ := newTestApp(t)
	if !strings.Contains(a.header(), "Timeline") {
		t.Fatalf("header should name the view: %q", a.header())
	}
	a = run(t, a, a.fetchStats())
	h := a.header()
	if !strings.Contains(h, "Timeline | Following: 1,234 | Followers: 56,789") {
		t.Fatalf("unexpected header: %q", h)
	}
}

func TestApp_SwitchViewLoadsAndPersists(t *testing.T) {
	a, _, statePath := newTestApp(t)
	a = send(t, a, runes("2"))

	if a.feed.ActiveView() != aggregate.ViewMyPosts {
		t.Fatalf("expected my posts view")
	}
	if !strings.Contains(a.View(), "bye") {
		t.Fatalf("my posts should be rendered:\n%s", a.View())
	}
	st, err := config.LoadUIState(statePath)
	if err != nil || st.View != "my_posts" {
		t.Fatalf("view should be persisted, got %#v err=%v", st, err)
	}
	if !strings.Contains(a.header(), "My Posts") {
		t.Fatalf("header should follow the view: %q", a.header())
	}
}

func TestApp_DeleteFlowRequiresPhrase(t *testing.T) {
	a, eng, _ := newTestApp(t)
	a = send(t, a, runes("2"))

	a = send(t, a, feed.DeleteRequestMsg{Post: ownPost()})
	if a.confirm == nil {
		t.Fatalf("delete request should open the dialog")
	}
	if !strings.Contains(a.View(), "Delete this post?") {
		t.Fatalf("dialog should be rendered")
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.confirm == nil || len(eng.deleted) != 0 {
		t.Fatalf("enter without the phrase must not delete")
	}

	for _, r := range confirm.Phrase {
		if r == ' ' {
			a = send(t, a, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		a = send(t, a, runes(string(r)))
	}
	if a.feed.ActiveView() != aggregate.ViewMyPosts {
		t.Fatalf("typing in the dialog must not reach global keys")
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.confirm != nil {
		t.Fatalf("dialog should close after confirming")
	}
	if len(eng.deleted) != 1 || eng.deleted[0] != ownPost().URI {
		t.Fatalf("unexpected deletes: %v", eng.deleted)
	}
	if a.status != "Post deleted." || a.statusErr {
		t.Fatalf("unexpected status: %q", a.status)
	}
	if strings.Contains(a.View(), "bye") {
		t.Fatalf("deleted post should be gone:\n%s", a.View())
	}
}

func TestApp_CancelDelete(t *testing.T) {
	a, eng, _ := newTestApp(t)
	a = send(t, a, feed.DeleteRequestMsg{Post: ownPost()})

	updated, _ := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = updated.(App)
	updated, _ = a.Update(confirm.CancelledMsg{})
	a = updated.(App)

	if a.confirm != nil || len(eng.deleted) != 0 {
		t.Fatalf("cancel must close the dialog without deleting")
	}
	if a.status != "Delete cancelled." {
		t.Fatalf("unexpected status: %q", a.status)
	}
}

func TestApp_StatusClearsOnlyForLatestTick(t *testing.T) {
	a, _, _ := newTestApp(t)
	updated, _ := a.Update(feed.StatusMsg{Text: "first"})
	a = updated.(App)
	updated, _ = a.Update(feed.StatusMsg{Text: "second", IsError: true})
	a = updated.(App)

	updated, _ = a.Update(clearStatusMsg{Seq: a.statusSeq - 1})
	a = updated.(App)
	if a.status != "second" {
		t.Fatalf("stale clear must not remove the newer status")
	}
	updated, _ = a.Update(clearStatusMsg{Seq: a.statusSeq})
	a = updated.(App)
	if a.status != "" {
		t.Fatalf("status should clear")
	}
}

func TestApp_Quit(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, cmd := a.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
