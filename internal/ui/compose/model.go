package compose

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/theme"
)

// SendMsg is dispatched when the user submits the compose form.
type SendMsg struct {
	Draft model.Draft
}

// CancelMsg is dispatched when the user aborts the compose form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to      string
	subject string
	message string
}

// Model is the Bubble Tea model for the compose view.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new compose model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the fields and builds a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.to = ""
	m.fb.subject = ""
	m.fb.message = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Active reports whether a form is being edited.
func (m Model) Active() bool {
	return m.form != nil && m.form.State == huh.StateNormal
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the compose form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("new letter") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("who is this for?").
				Value(&m.fb.to).
				Validate(validateRequired("To")),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject),
			huh.NewText().
				Title("Message").
				Placeholder("dear ...").
				Value(&m.fb.message),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	d := model.NewDraft(m.fb.to, m.fb.subject, m.fb.message)
	return func() tea.Msg { return SendMsg{Draft: d} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
