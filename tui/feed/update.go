package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skyterm/domain"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case DeletedMsg:
		return m.handleDeleted(msg)

	case HandlesResolvedMsg:
		for did, h := range msg.Handles {
			if h == domain.UnknownHandle {
				m.unresolved[did] = struct{}{}
				continue
			}
			delete(m.unresolved, did)
			m.handles[did] = h
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (Model, tea.Cmd) {
	if msg.ReqSeq != m.reqSeq || msg.View != m.view {
		return m, nil
	}
	m.loading = false
	m.loadingMore = false

	if msg.Err != nil {
		if len(m.entries) == 0 {
			m.err = msg.Err
		}
		return m, statusCmd("Could not load posts: "+msg.Err.Error(), true)
	}

	m.err = nil
	m.entries = msg.Entries
	if !msg.Append {
		m.cursor = 0
		m.startIndex = 0
	}
	m.clampCursor()
	m.ensureCursorVisible()
	return m, m.resolveHandles()
}

func (m Model) handleDeleted(msg DeletedMsg) (Model, tea.Cmd) {
	status := statusCmd("Post deleted.", false)
	if !msg.OK {
		text := "Could not delete post."
		if msg.Err != nil {
			text += " " + msg.Err.Error()
		}
		status = statusCmd(text, true)
	}

	if msg.ReqSeq != m.reqSeq || msg.View != m.view {
		return m, status
	}
	m.deleting = false
	if msg.OK {
		m.entries = msg.Entries
		m.clampCursor()
		m.ensureCursorVisible()
	}
	return m, status
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Select):
		if en, ok := m.selected(); ok && isMarker(en) {
			return m.startLoadMore()
		}

	case key.Matches(msg, m.keys.LoadMore):
		return m.startLoadMore()

	case key.Matches(msg, m.keys.Delete):
		en, ok := m.selected()
		if !ok || !en.IsPost() || m.Busy() {
			return m, nil
		}
		if !en.Post.IsOwn {
			return m, statusCmd("You can only delete your own posts.", true)
		}
		post := en.Post
		return m, func() tea.Msg { return DeleteRequestMsg{Post: post} }

	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()
	}

	return m, nil
}

func (m Model) startLoadMore() (Model, tea.Cmd) {
	if !m.hasMarker() || m.Busy() {
		return m, nil
	}
	m.loadingMore = true
	return m, m.loadMore()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
