package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/theme"
)

// Names lists the commands the palette completes.
var Names = []string{"write", "settings", "help", "quit"}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CloseMsg is emitted when the palette is dismissed.
type CloseMsg struct{}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "write, settings, help, quit"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names)
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.input.Blur()
			if cmd == "" {
				return m, func() tea.Msg { return CloseMsg{} }
			}
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}
		case "esc":
			m.input.Reset()
			m.input.Blur()
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("command"), m.input.View())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Value returns the text typed so far.
func (m Model) Value() string {
	return m.input.Value()
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
