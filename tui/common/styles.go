package common

import "github.com/charmbracelet/lipgloss"

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1185FE")).
			Padding(1, 1, 0, 1)

	// StatsStyle styles the view and follower counts next to the title.
	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true).
			Padding(1, 0, 0, 0)

	// AuthorStyle styles the post author handle.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// DisplayNameStyle styles the optional display name after the handle.
	DisplayNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B7BDF8"))

	// TimestampStyle styles timestamps.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ContentStyle styles post text.
	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// ReplyLabelStyle styles the "replied to" line.
	ReplyLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8AADF4")).
			Italic(true)

	// RepostBadgeStyle marks posts that arrived as a repost.
	RepostBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EED49F")).
				MarginLeft(1)

	// CountsStyle styles like and repost counters.
	CountsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// SelectedStyle highlights the currently selected post.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1185FE")).
			Padding(0, 1)

	// UnselectedStyle gives unselected posts a subtle greyed-out border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// OwnBadgeStyle highlights posts that belong to the user.
	OwnBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true).
			MarginLeft(1)

	// LoadMoreStyle styles the trailing load-more row.
	LoadMoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8AADF4")).
			Bold(true)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	// ModalStyle frames the delete confirmation dialog.
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#ED8796")).
			Padding(1, 2).
			Width(64)

	// ActionActiveStyle styles an enabled action button.
	ActionActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ED8796")).
				Bold(true).
				Padding(0, 1)

	// ActionInactiveStyle styles a disabled action button.
	ActionInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#45475A")).
				Padding(0, 1)

	// ConfirmStyle styles the delete confirmation prompt.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)
)
