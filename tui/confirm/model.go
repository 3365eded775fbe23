package confirm

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skyterm/domain"
	"github.com/CrestNiraj12/skyterm/tui/common"
)

// Phrase must be typed exactly to enable deletion.
const Phrase = "rm -rf"

const previewLimit = 100

// --- Messages ---

// ConfirmedMsg is sent when the user confirms deletion of the post.
type ConfirmedMsg struct {
	URI string
}

// CancelledMsg is sent when the user dismisses the dialog.
type CancelledMsg struct{}

// --- Model ---

// Model is the delete confirmation dialog.
type Model struct {
	post  domain.Post
	input textinput.Model
	keys  common.KeyMap
}

// New creates a dialog for deleting post.
func New(post domain.Post) Model {
	ti := textinput.New()
	ti.Placeholder = Phrase
	ti.CharLimit = 32
	ti.Width = 20
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	return Model{
		post:  post,
		input: ti,
		keys:  common.DefaultKeyMap(),
	}
}

// Init implements tea.Model. The cursor does not blink.
func (m Model) Init() tea.Cmd {
	return nil
}

// Ready reports whether the delete action is enabled.
func (m Model) Ready() bool {
	return m.input.Value() == Phrase
}

// Post is the post awaiting confirmation.
func (m Model) Post() domain.Post {
	return m.post
}

// Update handles input for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return CancelledMsg{} }
		case key.Matches(msg, m.keys.Select):
			if !m.Ready() {
				return m, nil
			}
			uri := m.post.URI
			return m, func() tea.Msg { return ConfirmedMsg{URI: uri} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the dialog box.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.ConfirmStyle.Render("Delete this post?"))
	b.WriteString("\n\n")
	b.WriteString(common.ContentStyle.Render(common.Preview(m.post.Text, previewLimit)))
	b.WriteString("\n\n")
	b.WriteString("Type " + common.ConfirmStyle.Render(Phrase) + " to confirm:\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	button := common.ActionInactiveStyle.Render("[ Delete ]")
	if m.Ready() {
		button = common.ActionActiveStyle.Render("[ Delete ]")
	}
	b.WriteString(button + common.ActionInactiveStyle.Render("esc: cancel"))

	return common.ModalStyle.Render(b.String())
}
