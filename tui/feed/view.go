package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/skyterm/app/aggregate"
	"github.com/CrestNiraj12/skyterm/domain"
	"github.com/CrestNiraj12/skyterm/tui/common"
)

const (
	replyIndent   = 4
	footerLines   = 3 // Footer status line plus help line.
	minPostWidth  = 30
	defaultWidth  = 80
	pendingHandle = "…"
	loadMoreLabel = "⤓ Load more posts"
)

// View renders the feed list.
func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.loading && len(m.entries) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading %s...\n", m.spinner.View(), strings.ToLower(m.view.Title())))
	case m.err != nil && len(m.entries) == 0:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n  Press r to retry.\n")
	case len(m.entries) == 0:
		b.WriteString("  No posts yet.\n")
	default:
		avail := m.listHeight()
		used := 0
		for i := m.startIndex; i < len(m.entries); i++ {
			block := m.renderEntry(i)
			h := lipgloss.Height(block)
			if avail > 0 && used > 0 && used+h > avail {
				break
			}
			b.WriteString(block)
			b.WriteString("\n")
			used += h
		}
	}

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	var status string
	switch {
	case m.loading && len(m.entries) > 0:
		status = fmt.Sprintf("%s Refreshing...", m.spinner.View())
	case m.loadingMore:
		status = fmt.Sprintf("%s Loading more...", m.spinner.View())
	case m.deleting:
		status = fmt.Sprintf("%s Deleting...", m.spinner.View())
	}
	return common.StatusBarStyle.Render(status + "\n" + m.keys.HelpLine())
}

func (m Model) renderEntry(i int) string {
	en := m.entries[i]
	selected := i == m.cursor

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}

	if isMarker(en) {
		return style.Width(m.boxWidth(en.Kind)).Render(common.LoadMoreStyle.Render(loadMoreLabel))
	}

	box := style.Width(m.boxWidth(en.Kind)).Render(m.renderPost(en.Post))
	if en.Kind == aggregate.KindReply {
		return lipgloss.NewStyle().MarginLeft(replyIndent).Render(box)
	}
	return box
}

func (m Model) renderPost(p domain.Post) string {
	header := common.AuthorStyle.Render("@" + p.AuthorHandle)
	if p.AuthorName != "" {
		header += " " + common.DisplayNameStyle.Render(p.AuthorName)
	}
	if p.IsOwn {
		header += common.OwnBadgeStyle.Render("(you)")
	}
	if p.RepostedBy != "" {
		header += common.RepostBadgeStyle.Render("↻ reposted by @" + p.RepostedBy)
	}

	when := common.FormatTimestamp(p.CreatedAt, m.loc)
	if rel := common.RelativeTime(p.CreatedAt, m.now()); rel != "" {
		when += " · " + rel
	}

	lines := []string{header, common.TimestampStyle.Render(when)}
	if p.IsReply() {
		lines = append(lines, common.ReplyLabelStyle.Render("↳ "+m.replyLabel(p)))
	}
	if p.Text != "" {
		lines = append(lines, common.ContentStyle.Render(p.Text))
	}
	lines = append(lines, common.CountsStyle.Render(fmt.Sprintf(
		"♥ %s  ↻ %s  💬 %s",
		common.FormatCount(p.LikeCount),
		common.FormatCount(p.RepostCount),
		common.FormatCount(p.ReplyCount),
	)))
	return strings.Join(lines, "\n")
}

func (m Model) replyLabel(p domain.Post) string {
	did := p.Reply.ParentAuthorDID
	if did != "" && did == p.AuthorDID {
		return common.ReplyLabel(p.AuthorHandle, p.AuthorHandle, true)
	}
	parent := domain.UnknownHandle
	if did != "" {
		parent = pendingHandle
		if h, ok := m.handles[did]; ok {
			parent = h
		} else if _, failed := m.unresolved[did]; failed {
			parent = domain.UnknownHandle
		}
	}
	return common.ReplyLabel(p.AuthorHandle, parent, false)
}

func (m Model) boxWidth(kind aggregate.Kind) int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	w -= 2 // Border.
	if kind == aggregate.KindReply {
		w -= replyIndent
	}
	return max(w, minPostWidth)
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-footerLines, 1)
}

// ensureCursorVisible moves the window so the selected entry is rendered.
func (m *Model) ensureCursorVisible() {
	if len(m.entries) == 0 {
		m.startIndex = 0
		return
	}
	if m.startIndex >= len(m.entries) {
		m.startIndex = len(m.entries) - 1
	}
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
		return
	}
	avail := m.listHeight()
	if avail == 0 {
		return
	}
	used := 0
	for i := m.startIndex; i <= m.cursor; i++ {
		used += lipgloss.Height(m.renderEntry(i))
	}
	for m.startIndex < m.cursor && used > avail {
		used -= lipgloss.Height(m.renderEntry(m.startIndex))
		m.startIndex++
	}
}
