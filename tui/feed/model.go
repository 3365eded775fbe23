package feed

import (
	"context"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/skyterm/app/aggregate"
	"github.com/CrestNiraj12/skyterm/domain"
	"github.com/CrestNiraj12/skyterm/tui/common"
)

// Pager is the aggregation engine as seen by the feed.
type Pager interface {
	LoadInitial(ctx context.Context, view aggregate.View) ([]aggregate.Entry, error)
	LoadMore(ctx context.Context, view aggregate.View) ([]aggregate.Entry, error)
	DeletePost(ctx context.Context, view aggregate.View, uri string) (bool, error)
	Sequence(view aggregate.View) []aggregate.Entry
}

// HandleResolver maps author DIDs to handles for reply labels.
type HandleResolver interface {
	ResolveHandle(ctx context.Context, did string) string
}

// URLOpener prepares the command that opens a post in the browser.
type URLOpener interface {
	Cmd(rawURL string) (*exec.Cmd, error)
}

// --- Messages ---

// PageLoadedMsg carries the view's sequence after a load completes.
type PageLoadedMsg struct {
	View    aggregate.View
	ReqSeq  int
	Entries []aggregate.Entry
	Append  bool
	Err     error
}

// HandlesResolvedMsg carries DID -> handle lookups for reply labels.
type HandlesResolvedMsg struct {
	Handles map[string]string
}

// DeleteRequestMsg asks the parent to confirm deletion of an own post.
type DeleteRequestMsg struct {
	Post domain.Post
}

// DeletedMsg is sent after a delete attempt.
type DeletedMsg struct {
	View    aggregate.View
	ReqSeq  int
	URI     string
	OK      bool
	Entries []aggregate.Entry
	Err     error
}

// StatusMsg is a transient notification for the status bar.
type StatusMsg struct {
	Text    string
	IsError bool
}

// --- Model ---

// Deps holds what the feed needs from the outside.
type Deps struct {
	Pager    Pager
	Resolver HandleResolver
	Opener   URLOpener
	Location *time.Location
	View     aggregate.View
}

// Model holds the state for the feed list of the active view.
type Model struct {
	pager    Pager
	resolver HandleResolver
	opener   URLOpener
	loc      *time.Location
	now      func() time.Time

	view        aggregate.View
	entries     []aggregate.Entry
	cursor      int
	startIndex  int // First rendered entry
	loading     bool
	loadingMore bool
	deleting    bool
	reqSeq      int // Bumped on every reset; older responses are dropped.
	err         error
	handles     map[string]string
	unresolved  map[string]struct{} // Failed lookups; retried on the next page.

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates a feed model for deps.View. Init starts its first load.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1185FE"))

	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	return Model{
		pager:      deps.Pager,
		resolver:   deps.Resolver,
		opener:     deps.Opener,
		loc:        loc,
		now:        time.Now,
		view:       deps.View,
		loading:    true,
		handles:    make(map[string]string),
		unresolved: make(map[string]struct{}),
		keys:       common.DefaultKeyMap(),
		spinner:    s,
	}
}

// Init starts the initial load of the view.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadInitial(),
		m.spinner.Tick,
	)
}

// ActiveView is the view the feed shows.
func (m Model) ActiveView() aggregate.View {
	return m.view
}

// Busy reports whether a load or delete is in flight for the view.
func (m Model) Busy() bool {
	return m.loading || m.loadingMore || m.deleting
}

// SetSize sets the area available to the list.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
	return m
}

// SwitchView resets the feed to view and loads its first page.
func (m Model) SwitchView(view aggregate.View) (Model, tea.Cmd) {
	m.view = view
	m.entries = nil
	m.cursor = 0
	m.startIndex = 0
	m.err = nil
	m.loadingMore = false
	m.deleting = false
	m.loading = true
	m.reqSeq++
	return m, m.loadInitial()
}

// Refresh reloads the first page of the current view, keeping the list on
// screen until the response arrives.
func (m Model) Refresh() (Model, tea.Cmd) {
	if m.Busy() {
		return m, nil
	}
	m.loading = true
	m.reqSeq++
	return m, m.loadInitial()
}

// Delete deletes the post at uri from the current view.
func (m Model) Delete(uri string) (Model, tea.Cmd) {
	if m.Busy() {
		return m, statusCmd("Busy, try again in a moment.", true)
	}
	m.deleting = true
	return m, m.deletePost(uri)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

func (m Model) selected() (aggregate.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return aggregate.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m Model) hasMarker() bool {
	n := len(m.entries)
	return n > 0 && m.entries[n-1].Kind == aggregate.KindLoadMore
}
