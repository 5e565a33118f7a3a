package app

import (
	"errors"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/letterbox/internal/gesture"
	"github.com/nhle/letterbox/internal/keys"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/session"
	"github.com/nhle/letterbox/internal/swipe"
	"github.com/nhle/letterbox/internal/theme"
	"github.com/nhle/letterbox/internal/transition"
	"github.com/nhle/letterbox/internal/ui"
	"github.com/nhle/letterbox/internal/ui/cardstack"
	"github.com/nhle/letterbox/internal/ui/command"
	"github.com/nhle/letterbox/internal/ui/compose"
	configview "github.com/nhle/letterbox/internal/ui/config"
	"github.com/nhle/letterbox/internal/ui/envelope"
	helpview "github.com/nhle/letterbox/internal/ui/help"
	"github.com/nhle/letterbox/internal/ui/letter"
)

// ConfigReloadedMsg carries a configuration re-read after the file changed.
type ConfigReloadedMsg struct {
	Config *model.AppConfig
	Err    error
}

// overlay is a panel drawn over the list instead of the session's view.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayCommand
	overlaySettings
)

// Model is the root Bubble Tea model. It routes input to the view the
// session is showing and renders the frame around it.
type Model struct {
	sess        *session.Session
	cfg         *model.AppConfig
	keys        *keys.KeyMap
	layout      ui.Layout
	stack       cardstack.Model
	letter      letter.Model
	envelope    envelope.Model
	compose     compose.Model
	helpView    helpview.Model
	commandView command.Model
	configView  configview.Model
	overlay     overlay
	ready       bool
	status      string
}

// New creates the root model for sess. cfg supplies the input mapping;
// configPath is where the settings view saves, empty to keep edits in
// memory.
func New(sess *session.Session, cfg *model.AppConfig, configPath string) Model {
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	k := keys.DefaultKeyMap()
	l := ui.NewLayout(80, 24)

	return Model{
		sess:        sess,
		cfg:         cfg,
		keys:        k,
		layout:      l,
		stack:       cardstack.New(sess, k, stackOptions(cfg), 80, 22, l.HeaderHeight),
		letter:      letter.New(k, 80, 22),
		envelope:    envelope.New(80, 22),
		compose:     compose.New(80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
		configView:  configview.New(configPath, 80, 22),
	}
}

func stackOptions(cfg *model.AppConfig) cardstack.Options {
	return cardstack.Options{
		Max:          cfg.Gesture.Max,
		UnitsPerCell: cfg.Gesture.DragUnitsPerCell,
		KeyImpulse:   cfg.Gesture.KeyImpulse,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("letterbox"),
		m.stack.Init(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ColumnWidth(), m.layout.ContentHeight()
		m.stack.SetSize(w, h)
		m.letter.SetSize(w, h)
		m.envelope.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.configView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case swipe.SettleMsg:
		action, ok := m.sess.HandleSettle(msg)
		if ok && action == gesture.Delete {
			m.stack.Refresh()
		}
		return m, nil

	case transition.DoneMsg, transition.FrameMsg:
		before := m.sess.State()
		cmd, _ := m.sess.HandleTransition(msg)
		after := m.sess.State()
		if before.Kind == transition.KindEnvelope && after.Kind == transition.KindDetail && after.Target != nil {
			m.letter.SetMail(*after.Target)
		}
		return m, cmd

	case ConfigReloadedMsg:
		if msg.Err != nil {
			log.Printf("app: config reload: %v", msg.Err)
			m.status = "config: " + msg.Err.Error()
			return m, nil
		}
		m.status = ""
		// Saving from the settings view also lands here once the file
		// watcher sees the write; that config is already applied.
		if msg.Config == nil || m.cfg.SameLive(msg.Config) {
			return m, nil
		}
		msg.Config.Seed = m.cfg.Seed
		m.applyConfig(msg.Config)
		return m, nil

	case configview.ConfigSavedMsg:
		m.overlay = overlayNone
		if msg.Config != nil {
			m.applyConfig(msg.Config)
		}
		cmd := m.report(nil, msg.Err)
		return m, cmd

	case configview.ConfigDoneMsg, command.CloseMsg, helpview.CloseMsg:
		m.overlay = overlayNone
		return m, nil

	case command.CommandMsg:
		m.overlay = overlayNone
		return m.executeCommand(string(msg))

	case cardstack.OpenMsg:
		m.leaveList()
		cmd, err := m.sess.Open(msg.ID)
		cmd = m.report(cmd, err)
		return m, cmd

	case cardstack.ComposeMsg:
		m.leaveList()
		if err := m.sess.Compose(); err != nil {
			cmd := m.report(nil, err)
			return m, cmd
		}
		cmd := m.compose.Start()
		return m, cmd

	case letter.BackMsg:
		cmd, err := m.sess.Back()
		cmd = m.report(cmd, err)
		return m, cmd

	case letter.DeleteMsg:
		err := m.sess.DeleteOpen()
		m.stack.Refresh()
		cmd := m.report(nil, err)
		return m, cmd

	case letter.SendReplyMsg:
		cmd, err := m.sess.SendReply(msg.Text)
		cmd = m.report(cmd, err)
		return m, cmd

	case compose.SendMsg:
		cmd := m.report(nil, m.sess.SendCompose(msg.Draft))
		return m, cmd

	case compose.CancelMsg:
		cmd := m.report(nil, m.sess.CancelCompose())
		return m, cmd

	case tea.KeyMsg:
		m.status = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.typing() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.sess.State().Kind == transition.KindList && m.overlay == overlayNone {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Help):
			if m.overlay == overlayNone {
				m.leaveList()
				m.overlay = overlayHelp
				return m, nil
			}
		case key.Matches(msg, m.keys.Command):
			if m.sess.State().Kind == transition.KindList {
				m.leaveList()
				m.overlay = overlayCommand
				cmd := m.commandView.Focus()
				return m, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// typing reports whether keys belong to a text field.
func (m Model) typing() bool {
	if m.overlay == overlayCommand || m.overlay == overlaySettings {
		return true
	}
	switch m.sess.State().Kind {
	case transition.KindComposing:
		return true
	case transition.KindDetail:
		return m.letter.Replying()
	}
	return false
}

func (m *Model) applyConfig(cfg *model.AppConfig) {
	m.cfg = cfg
	m.sess.ApplyConfig(cfg)
	m.stack.SetOptions(stackOptions(cfg))
}

// leaveList ends any mouse drag on the stack before another view takes
// over the mouse.
func (m *Model) leaveList() {
	m.stack.CancelDrag()
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(name string) (tea.Model, tea.Cmd) {
	switch name {
	case "write", "compose":
		return m.Update(cardstack.ComposeMsg{})
	case "settings", "config":
		if m.sess.State().Kind != transition.KindList {
			return m, nil
		}
		m.leaveList()
		m.overlay = overlaySettings
		cmd := m.configView.Start(m.cfg)
		return m, cmd
	case "help":
		m.leaveList()
		m.overlay = overlayHelp
		return m, nil
	case "quit", "q":
		return m, tea.Quit
	default:
		m.status = "unknown command: " + name
		return m, nil
	}
}

// report turns a rejected request into a status hint. Requests made while
// an envelope animates are dropped silently.
func (m *Model) report(cmd tea.Cmd, err error) tea.Cmd {
	if err == nil {
		return cmd
	}
	log.Printf("app: %v", err)
	if !errors.Is(err, transition.ErrTransitionInFlight) {
		m.status = err.Error()
	}
	return cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.overlay {
	case overlayCommand:
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	case overlaySettings:
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd
	case overlayHelp:
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	switch m.sess.State().Kind {
	case transition.KindList:
		m.stack, cmd = m.stack.Update(msg)
	case transition.KindDetail:
		if _, ok := msg.(tea.MouseMsg); ok {
			return m, nil
		}
		m.letter, cmd = m.letter.Update(msg)
	case transition.KindComposing:
		m.compose, cmd = m.compose.Update(msg)
	case transition.KindEnvelope:
		// Input waits for the envelope to finish.
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("inbox", m.sess.CountLabel())
	content := m.layout.RenderColumn(m.renderContent())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.overlay {
	case overlayHelp:
		return m.helpView.View()
	case overlayCommand:
		return m.commandView.View()
	case overlaySettings:
		return m.configView.View()
	}

	st := m.sess.State()
	switch st.Kind {
	case transition.KindEnvelope:
		return m.envelope.View(st.Phase, m.sess.Progress(), st.Target)
	case transition.KindDetail:
		return m.letter.View()
	case transition.KindComposing:
		return m.compose.View()
	default:
		return m.stack.View()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.status != "" {
		return theme.ErrorStyle.Render(m.status)
	}
	switch m.overlay {
	case overlayHelp:
		return "? close help | esc back"
	case overlayCommand:
		return "enter run | tab complete | esc close"
	case overlaySettings:
		return "enter next | esc discard"
	}

	switch m.sess.State().Kind {
	case transition.KindEnvelope:
		return ""
	case transition.KindDetail:
		if m.letter.Replying() {
			return "ctrl+s send | esc done"
		}
		return "esc back | D delete | tab reply | j/k scroll"
	case transition.KindComposing:
		return "enter next | esc cancel"
	default:
		return "q quit | ? help | : command | ←/→ swipe | enter open | w write"
	}
}
