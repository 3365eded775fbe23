package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/skyterm/app"
	"github.com/CrestNiraj12/skyterm/app/aggregate"
	"github.com/CrestNiraj12/skyterm/domain"
	"github.com/CrestNiraj12/skyterm/infra/config"
	"github.com/CrestNiraj12/skyterm/tui/common"
	"github.com/CrestNiraj12/skyterm/tui/confirm"
	"github.com/CrestNiraj12/skyterm/tui/feed"
)

// statusTTL is how long a transient status stays visible.
const statusTTL = 4 * time.Second

const headerLines = 2

// followsWarmLimit bounds the follows fetched at startup to seed handles.
const followsWarmLimit = 500

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Engine    feed.Pager
	Account   app.AccountService
	Opener    feed.URLOpener
	Location  *time.Location
	View      aggregate.View // View shown at startup
	StatePath string         // UI state file; empty disables persistence
	Log       *log.Logger
}

// --- Messages ---

type statsLoadedMsg struct {
	View    aggregate.View
	Profile domain.Profile
	Err     error
}

type clearStatusMsg struct {
	Seq int
}

type stateSavedMsg struct {
	Err error
}

type followsLoadedMsg struct {
	Count int
	Err   error
}

// App is the root Bubble Tea model. It owns the header, the status bar and
// the delete dialog, and routes everything else to the feed.
type App struct {
	deps      Deps
	log       *log.Logger
	feed      feed.Model
	confirm   *confirm.Model // Non-nil while the delete dialog is open
	keys      common.KeyMap
	profile   domain.Profile
	hasStats  bool
	status    string // Transient status message (e.g. "Post deleted.")
	statusErr bool
	statusSeq int
	width     int
	height    int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	logger := deps.Log
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return App{
		deps: deps,
		log:  logger.WithPrefix("tui"),
		feed: feed.New(feed.Deps{
			Pager:    deps.Engine,
			Resolver: deps.Account,
			Opener:   deps.Opener,
			Location: deps.Location,
			View:     deps.View,
		}),
		keys: common.DefaultKeyMap(),
	}
}

// Init starts the first page load and the stats fetch.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.feed.Init(),
		a.fetchStats(),
		a.warmFollows(),
	)
}

// warmFollows loads the user's follows so reply labels resolve without a
// profile lookup per author.
func (a App) warmFollows() tea.Cmd {
	account := a.deps.Account
	if account == nil {
		return nil
	}
	return func() tea.Msg {
		follows, err := account.Follows(context.Background(), followsWarmLimit)
		return followsLoadedMsg{Count: len(follows), Err: err}
	}
}

func (a App) fetchStats() tea.Cmd {
	account, view := a.deps.Account, a.feed.ActiveView()
	if account == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := account.CurrentProfile(context.Background())
		return statsLoadedMsg{View: view, Profile: p, Err: err}
	}
}

func (a App) saveView(view aggregate.View) tea.Cmd {
	path := a.deps.StatePath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		return stateSavedMsg{Err: config.SaveUIState(path, config.UIState{View: view.String()})}
	}
}

func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.status = text
	a.statusErr = isErr
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{Seq: seq}
	})
}

// Update handles messages and routes to the feed or the dialog.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.feed = a.feed.SetSize(msg.Width, max(msg.Height-headerLines-1, 0))
		return a, nil

	case tea.KeyMsg:
		if a.confirm != nil {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			updated, cmd := a.confirm.Update(msg)
			a.confirm = &updated
			return a, cmd
		}
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Refresh):
			if a.feed.Busy() {
				return a, nil
			}
			var cmd tea.Cmd
			a.feed, cmd = a.feed.Refresh()
			return a, tea.Batch(cmd, a.fetchStats())
		case key.Matches(msg, a.keys.Timeline):
			return a.switchView(aggregate.ViewTimeline)
		case key.Matches(msg, a.keys.MyPosts):
			return a.switchView(aggregate.ViewMyPosts)
		}

	case statsLoadedMsg:
		if msg.View != a.feed.ActiveView() {
			return a, nil
		}
		if msg.Err != nil {
			a.log.Warn("stats fetch failed", "err", msg.Err)
			return a, a.setStatus("Could not load profile stats.", true)
		}
		a.profile = msg.Profile
		a.hasStats = true
		return a, nil

	case followsLoadedMsg:
		if msg.Err != nil {
			a.log.Warn("follows fetch failed", "err", msg.Err, "loaded", msg.Count)
		} else {
			a.log.Debug("follows loaded", "count", msg.Count)
		}
		return a, nil

	case stateSavedMsg:
		if msg.Err != nil {
			a.log.Warn("saving ui state failed", "err", msg.Err)
		}
		return a, nil

	case feed.StatusMsg:
		return a, a.setStatus(msg.Text, msg.IsError)

	case clearStatusMsg:
		if msg.Seq == a.statusSeq {
			a.status = ""
			a.statusErr = false
		}
		return a, nil

	case feed.DeleteRequestMsg:
		dlg := confirm.New(msg.Post)
		a.confirm = &dlg
		return a, dlg.Init()

	case confirm.ConfirmedMsg:
		a.confirm = nil
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Delete(msg.URI)
		return a, cmd

	case confirm.CancelledMsg:
		a.confirm = nil
		return a, a.setStatus("Delete cancelled.", false)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd
	}

	if a.confirm != nil {
		updated, cmd := a.confirm.Update(msg)
		a.confirm = &updated
		var feedCmd tea.Cmd
		a.feed, feedCmd = a.feed.Update(msg)
		return a, tea.Batch(cmd, feedCmd)
	}

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	return a, cmd
}

func (a App) switchView(view aggregate.View) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.feed, cmd = a.feed.SwitchView(view)
	a.log.Debug("view switched", "view", view)
	return a, tea.Batch(cmd, a.fetchStats(), a.saveView(view))
}

// View renders the header, the feed (or the dialog) and the status bar.
func (a App) View() string {
	s := a.header() + "\n"

	if a.confirm != nil {
		modal := a.confirm.View()
		if a.width > 0 && a.height > headerLines {
			modal = lipgloss.Place(a.width, a.height-headerLines-1, lipgloss.Center, lipgloss.Center, modal)
		}
		s += modal
	} else {
		s += a.feed.View()
	}

	if a.status != "" {
		style := common.SuccessStyle
		if a.statusErr {
			style = common.ErrorStyle
		}
		s += "\n" + style.Render(a.status)
	}
	return s
}

func (a App) header() string {
	title := common.AppTitleStyle.Render("🦋 skyterm")
	stats := a.feed.ActiveView().Title()
	if a.hasStats {
		stats = fmt.Sprintf("%s | Following: %s | Followers: %s",
			stats,
			common.FormatCount(a.profile.Following),
			common.FormatCount(a.profile.Followers),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, common.StatsStyle.Render(stats))
}
