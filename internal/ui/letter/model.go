package letter

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/keys"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/theme"
)

// replyHeight is the number of lines of the reply box.
const replyHeight = 3

// signature stands in for the hand-drawn signature under the body.
var signature = []string{
	`   __      _.-._`,
	`  /  \   .'     '.   _`,
	` /    '-'         '-' \_`,
}

// BackMsg signals the parent to close the letter.
type BackMsg struct{}

// DeleteMsg signals the parent to delete the open letter.
type DeleteMsg struct{}

// SendReplyMsg carries the reply text to the parent.
type SendReplyMsg struct {
	Text string
}

// Model is the paper-letter detail view.
type Model struct {
	mail     *model.Mail
	viewport viewport.Model
	reply    textarea.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a letter view model.
func New(k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "reply"
	ta.Prompt = "│ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(replyHeight)

	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	m := Model{
		viewport: vp,
		reply:    ta,
		keys:     k,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command for the letter view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetMail shows mail and clears any previous reply.
func (m *Model) SetMail(mail model.Mail) {
	c := mail.Clone()
	m.mail = &c
	m.reply.Reset()
	m.reply.Blur()
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Mail returns the letter on display.
func (m Model) Mail() (model.Mail, bool) {
	if m.mail == nil {
		return model.Mail{}, false
	}
	return *m.mail, true
}

// Replying reports whether the reply box has focus.
func (m Model) Replying() bool { return m.reply.Focused() }

// Update handles messages for the letter view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.reply.Focused() {
			return m.handleReplyKeys(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteMsg{} }

		case key.Matches(msg, m.keys.Reply):
			cmd := m.reply.Focus()
			return m, cmd

		case key.Matches(msg, m.keys.Send):
			return m, m.send()
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleReplyKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m, m.send()

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Reply):
		m.reply.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.reply, cmd = m.reply.Update(msg)
	return m, cmd
}

func (m Model) send() tea.Cmd {
	text := strings.TrimSpace(m.reply.Value())
	return func() tea.Msg { return SendReplyMsg{Text: text} }
}

// View renders the letter.
func (m Model) View() string {
	if m.mail == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No letter open")
	}

	replyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if m.reply.Focused() {
		replyStyle = replyStyle.Foreground(theme.ColorBlue)
	}

	footer := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.ColorSubtle).
		Render(m.mail.Timestamp)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		replyStyle.Render(m.reply.View()),
		footer,
	)
}

// renderContent builds the letter body for the viewport.
func (m Model) renderContent() string {
	if m.mail == nil {
		return ""
	}
	mail := m.mail
	width := m.viewport.Width

	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	stamp := theme.StarStyle.Render("✉")
	if mail.Important {
		stamp = theme.StarStyle.Render("★ ✉")
	}
	gap := width - lipgloss.Width(mail.Timestamp) - lipgloss.Width(stamp)
	if gap < 1 {
		gap = 1
	}

	var sections []string
	sections = append(sections, timeStyle.Render(mail.Timestamp)+strings.Repeat(" ", gap)+stamp)
	if mail.Subject != "" {
		sections = append(sections, theme.SenderStyle.Render(mail.Subject))
	}
	sections = append(sections, "")

	para := lipgloss.NewStyle().Width(width)
	for _, p := range mail.Body {
		sections = append(sections, para.Render(p), "")
	}

	sig := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for _, line := range signature {
		sections = append(sections, sig.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the letter view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - replyHeight - 1
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.reply.SetWidth(width)
	if m.mail != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
