package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/keys"
	"github.com/nhle/letterbox/internal/theme"
)

// CloseMsg is emitted when the user dismisses the overlay.
type CloseMsg struct{}

// sectionTitles names the groups of KeyMap.FullHelp, in order.
var sectionTitles = []string{"inbox", "swipe", "letter", "general"}

// mouseHints describes the pointer gestures on the card stack.
var mouseHints = [][2]string{
	{"drag", "swipe a card, release to commit"},
	{"wheel ←/→", "nudge the card under the pointer"},
	{"click", "open letter"},
}

// Model is the key reference overlay.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates the overlay for k.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: k, help: h}
	m.SetSize(width, height)
	return m
}

// Update closes the overlay on esc or the help key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back, m.keys.Help) {
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// View renders one section per key group followed by the mouse gestures.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	parts := []string{titleStyle.Render("keys")}
	for i, group := range m.keys.FullHelp() {
		title := "more"
		if i < len(sectionTitles) {
			title = sectionTitles[i]
		}
		parts = append(parts,
			sectionStyle.Render(title),
			m.help.FullHelpView([][]key.Binding{group}),
			"")
	}

	var mouse strings.Builder
	for i, h := range mouseHints {
		if i > 0 {
			mouse.WriteByte('\n')
		}
		mouse.WriteString(m.help.Styles.FullKey.Render(h[0]))
		mouse.WriteString(m.help.Styles.FullSeparator.Render(" "))
		mouse.WriteString(m.help.Styles.FullDesc.Render(h[1]))
	}
	parts = append(parts, sectionStyle.Render("mouse"), mouse.String())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
