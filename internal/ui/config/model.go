package config

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/theme"
)

// ConfigDoneMsg signals the settings view should close without changes.
type ConfigDoneMsg struct{}

// ConfigSavedMsg carries the edited configuration. Err is set when writing
// the file failed; Config is still the edited value.
type ConfigSavedMsg struct {
	Config *model.AppConfig
	Err    error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name       string
	haptics    bool
	damping    string
	settleMs   string
	envelopeMs string
}

// Model edits the user-facing part of the configuration.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	base   *model.AppConfig
	path   string
	width  int
	height int
}

// New creates a settings view that writes to path. An empty path keeps
// edits in memory.
func New(path string, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		path:   path,
		width:  width,
		height: height,
	}
}

// Start fills the form from cfg.
func (m *Model) Start(cfg *model.AppConfig) tea.Cmd {
	base := *cfg
	m.base = &base
	m.fb.name = cfg.User.Name
	m.fb.haptics = cfg.Haptics.Enabled
	m.fb.damping = strconv.FormatFloat(cfg.Gesture.Damping, 'f', -1, 64)
	m.fb.settleMs = strconv.Itoa(cfg.Gesture.SettleMs)
	m.fb.envelopeMs = strconv.Itoa(cfg.Transition.EnvelopeMs)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg, err := m.buildConfig()
		if err != nil {
			return m, func() tea.Msg { return ConfigSavedMsg{Err: err} }
		}
		return m, m.save(cfg)
	case huh.StateAborted:
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	hint := ""
	if m.path != "" {
		hint = "\n" + theme.HelpStyle.Render("saved to "+m.path)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render("settings") + "\n" + m.form.View() + hint)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Shown in the greeting").
				Value(&m.fb.name),
			huh.NewConfirm().
				Title("Haptics").
				Description("Ring the bell when a swipe arms or commits").
				Value(&m.fb.haptics),
			huh.NewInput().
				Title("Wheel damping").
				Description("Fraction of each wheel notch applied, between 0 and 1").
				Value(&m.fb.damping).
				Validate(validateFraction),
			huh.NewInput().
				Title("Settle delay (ms)").
				Description("Quiet period before a wheel swipe commits").
				Value(&m.fb.settleMs).
				Validate(validatePositive("Settle delay")),
			huh.NewInput().
				Title("Envelope (ms)").
				Value(&m.fb.envelopeMs).
				Validate(validatePositive("Envelope")),
		),
	).WithWidth(m.formWidth())
}

// buildConfig merges the form values into the config the form started from.
func (m Model) buildConfig() (*model.AppConfig, error) {
	cfg := *m.base
	cfg.User.Name = strings.TrimSpace(m.fb.name)
	cfg.Haptics.Enabled = m.fb.haptics

	var err error
	if cfg.Gesture.Damping, err = strconv.ParseFloat(strings.TrimSpace(m.fb.damping), 64); err != nil {
		return nil, fmt.Errorf("damping: %w", err)
	}
	if cfg.Gesture.SettleMs, err = strconv.Atoi(strings.TrimSpace(m.fb.settleMs)); err != nil {
		return nil, fmt.Errorf("settle delay: %w", err)
	}
	if cfg.Transition.EnvelopeMs, err = strconv.Atoi(strings.TrimSpace(m.fb.envelopeMs)); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// save returns a command that writes cfg to the config file.
func (m Model) save(cfg *model.AppConfig) tea.Cmd {
	path := m.path
	return func() tea.Msg {
		if path == "" {
			return ConfigSavedMsg{Config: cfg}
		}
		err := model.SaveConfig(path, cfg)
		return ConfigSavedMsg{Config: cfg, Err: err}
	}
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

// --- Validators ---

func validateFraction(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v <= 0 || v >= 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}

func validatePositive(fieldName string) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a whole number", fieldName)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
		return nil
	}
}
