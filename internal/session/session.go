// Package session is the single owner of the inbox, the view machine and
// the per-card gesture controllers. UI code only talks to a Session.
package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/letterbox/internal/gesture"
	"github.com/nhle/letterbox/internal/haptic"
	"github.com/nhle/letterbox/internal/inbox"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/swipe"
	"github.com/nhle/letterbox/internal/transition"
)

// ErrUnknownMail is returned when an operation names a mail that is not in
// the inbox.
var ErrUnknownMail = errors.New("unknown mail")

// Session wires the inbox, the view machine and the cards together.
type Session struct {
	inbox    *inbox.List
	machine  *transition.Machine
	cards    map[int]*swipe.Controller
	outdated map[int]bool
	settings swipe.Settings
	sink     haptic.Sink
	user     string

	// sent keeps every draft handed to SendReply or SendCompose.
	sent []model.Draft
}

// New returns a session seeded with mails and configured from cfg. A nil
// sink disables feedback.
func New(mails []model.Mail, cfg *model.AppConfig, sink haptic.Sink) *Session {
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	if sink == nil {
		sink = haptic.Nop{}
	}

	s := &Session{
		inbox: inbox.New(mails),
		machine: transition.New(
			cfg.Transition.EnvelopeDuration(),
			cfg.Transition.FrameInterval(),
		),
		cards:    make(map[int]*swipe.Controller),
		outdated: make(map[int]bool),
		settings: SettingsFromConfig(cfg),
		sink:     sink,
		user:     cfg.User.Name,
	}

	s.inbox.Subscribe(s.onInboxChange)
	s.machine.Subscribe(func(from, to transition.State) {
		log.Printf("session: view %s -> %s", from, to)
	})
	return s
}

// SettingsFromConfig converts the configuration into controller settings.
func SettingsFromConfig(cfg *model.AppConfig) swipe.Settings {
	g := cfg.Gesture
	s := swipe.Settings{
		Max:             g.Max,
		DeleteThreshold: g.DeleteThreshold,
		FlagThreshold:   g.FlagThreshold,
		Damping:         g.Damping,
		SettleDelay:     g.SettleDelay(),
	}
	if cfg.Haptics.Enabled && cfg.Haptics.PulseMs > 0 {
		pulse := haptic.Pulse(time.Duration(cfg.Haptics.PulseMs) * time.Millisecond)
		s.ArmPulse = pulse
		s.CommitPulse = pulse
	}
	return s
}

// Mails returns the current inbox contents in display order.
func (s *Session) Mails() []model.Mail { return s.inbox.Snapshot() }

// Count returns the number of mails in the inbox.
func (s *Session) Count() int { return s.inbox.Len() }

// Mail returns the mail with id.
func (s *Session) Mail(id int) (model.Mail, bool) { return s.inbox.Get(id) }

// State returns the visible view.
func (s *Session) State() transition.State { return s.machine.State() }

// Progress returns the running envelope's progress in [0, 1].
func (s *Session) Progress() float64 { return s.machine.Progress() }

// Settings returns the active gesture settings.
func (s *Session) Settings() swipe.Settings { return s.settings }

// Sent returns the drafts sent so far, oldest first.
func (s *Session) Sent() []model.Draft {
	return append([]model.Draft(nil), s.sent...)
}

// Greeting returns the header line for the given local time, e.g.
// "good morning sam".
func (s *Session) Greeting(now time.Time) string {
	var part string
	switch h := now.Hour(); {
	case h < 12:
		part = "good morning"
	case h < 18:
		part = "good afternoon"
	default:
		part = "good evening"
	}
	if s.user == "" {
		return part
	}
	return part + " " + s.user
}

// CountLabel returns the "N new mails" header line.
func (s *Session) CountLabel() string {
	return fmt.Sprintf("%d new mails", s.inbox.Len())
}

// Open starts the envelope transition to the letter with id.
func (s *Session) Open(id int) (tea.Cmd, error) {
	m, ok := s.inbox.Get(id)
	if !ok {
		return nil, fmt.Errorf("opening %d: %w", id, ErrUnknownMail)
	}
	if c := s.cards[id]; c != nil && !c.Idle() {
		// The card may still be deleted by its pending settle.
		return nil, fmt.Errorf("opening %d: card is moving", id)
	}
	cmd, err := s.machine.Open(m)
	if err != nil {
		return nil, fmt.Errorf("opening %d: %w", id, err)
	}
	return cmd, nil
}

// Back starts the envelope transition from the letter to the list.
func (s *Session) Back() (tea.Cmd, error) {
	cmd, err := s.machine.Back()
	if err != nil {
		return nil, fmt.Errorf("going back: %w", err)
	}
	return cmd, nil
}

// DeleteOpen removes the open letter from the inbox and returns to the
// list without an envelope.
func (s *Session) DeleteOpen() error {
	st := s.machine.State()
	if s.machine.InFlight() {
		return fmt.Errorf("deleting open letter: %w", transition.ErrTransitionInFlight)
	}
	if st.Kind != transition.KindDetail || st.Target == nil {
		return fmt.Errorf("deleting open letter: %w", transition.ErrInvalidTransition)
	}

	s.inbox.Delete(st.Target.ID)
	if err := s.machine.Deleted(); err != nil {
		return fmt.Errorf("deleting open letter: %w", err)
	}
	return nil
}

// SendReply records a reply to the open letter and closes it.
func (s *Session) SendReply(text string) (tea.Cmd, error) {
	st := s.machine.State()
	if st.Kind != transition.KindDetail || st.Target == nil {
		if s.machine.InFlight() {
			return nil, fmt.Errorf("sending reply: %w", transition.ErrTransitionInFlight)
		}
		return nil, fmt.Errorf("sending reply: %w", transition.ErrInvalidTransition)
	}

	cmd, err := s.machine.Back()
	if err != nil {
		return nil, fmt.Errorf("sending reply: %w", err)
	}
	s.record(model.ReplyTo(*st.Target, text))
	return cmd, nil
}

// Compose shows the compose view.
func (s *Session) Compose() error {
	if err := s.machine.Compose(); err != nil {
		return fmt.Errorf("composing: %w", err)
	}
	return nil
}

// CancelCompose discards the compose view.
func (s *Session) CancelCompose() error {
	if err := s.machine.CancelCompose(); err != nil {
		return fmt.Errorf("cancelling compose: %w", err)
	}
	return nil
}

// SendCompose records d and leaves the compose view.
func (s *Session) SendCompose(d model.Draft) error {
	if err := s.machine.SendCompose(); err != nil {
		return fmt.Errorf("sending draft: %w", err)
	}
	s.record(d)
	return nil
}

func (s *Session) record(d model.Draft) {
	if d.Empty() {
		return
	}
	s.sent = append(s.sent, d)
	log.Printf("session: sent draft %s to %q (%d bytes)", d.ID, d.To, len(d.Body))
}

// Card returns the controller for id, creating it on first use. It returns
// nil when id is not in the inbox.
func (s *Session) Card(id int) *swipe.Controller {
	if c, ok := s.cards[id]; ok {
		return c
	}
	if _, ok := s.inbox.Get(id); !ok {
		return nil
	}
	c := swipe.New(id, s.settings, s.inbox, s.sink)
	s.cards[id] = c
	return c
}

// Visuals returns the rendering parameters for card id.
func (s *Session) Visuals(id int) gesture.Visuals {
	if c, ok := s.cards[id]; ok {
		return c.Visuals()
	}
	return gesture.Derive(0, s.settings.Max)
}

// Position returns the displacement of card id.
func (s *Session) Position(id int) float64 {
	if c, ok := s.cards[id]; ok {
		return c.Position()
	}
	return 0
}

// Drag feeds the total drag offset of card id. Ignored outside the list.
func (s *Session) Drag(id int, offset float64) {
	if s.machine.State().Kind != transition.KindList {
		return
	}
	if c := s.Card(id); c != nil {
		c.Drag(offset)
	}
}

// Release ends the drag on card id.
func (s *Session) Release(id int) gesture.FinalAction {
	c, ok := s.cards[id]
	if !ok {
		return gesture.SnapBack
	}
	action := c.Release()
	s.retire(id)
	return action
}

// CancelDrag abandons the drag on card id without settling it.
func (s *Session) CancelDrag(id int) {
	c, ok := s.cards[id]
	if !ok {
		return
	}
	c.Cancel()
	s.retire(id)
}

// Impulse feeds a wheel or key impulse to card id. Ignored outside the
// list.
func (s *Session) Impulse(id int, dx, dy float64) tea.Cmd {
	if s.machine.State().Kind != transition.KindList {
		return nil
	}
	if c := s.Card(id); c != nil {
		return c.Impulse(dx, dy)
	}
	return nil
}

// HandleSettle routes a settle timer to its card.
func (s *Session) HandleSettle(msg swipe.SettleMsg) (gesture.FinalAction, bool) {
	c, ok := s.cards[msg.CardID]
	if !ok {
		return gesture.SnapBack, false
	}
	action, ok := c.HandleSettle(msg)
	s.retire(msg.CardID)
	return action, ok
}

// retire drops an idle controller built with superseded settings.
func (s *Session) retire(id int) {
	if !s.outdated[id] {
		return
	}
	if c, ok := s.cards[id]; ok && c.Idle() {
		delete(s.cards, id)
		delete(s.outdated, id)
	}
}

// HandleTransition routes envelope timer messages to the machine. The
// second result reports whether msg was a transition message at all.
func (s *Session) HandleTransition(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case transition.DoneMsg:
		s.machine.HandleDone(msg)
		return nil, true
	case transition.FrameMsg:
		return s.machine.HandleFrame(msg), true
	}
	return nil, false
}

// ApplySettings installs new gesture settings. Idle controllers are
// rebuilt right away; busy ones finish their gesture first and are
// rebuilt on next use.
func (s *Session) ApplySettings(settings swipe.Settings) {
	s.settings = settings
	for id, c := range s.cards {
		if c.Idle() {
			delete(s.cards, id)
			continue
		}
		s.outdated[id] = true
	}
}

// ApplyConfig installs a reloaded configuration.
func (s *Session) ApplyConfig(cfg *model.AppConfig) {
	s.user = cfg.User.Name
	s.machine.SetTiming(cfg.Transition.EnvelopeDuration(), cfg.Transition.FrameInterval())
	s.ApplySettings(SettingsFromConfig(cfg))
}

func (s *Session) onInboxChange(ch inbox.Change) {
	log.Printf("session: %s mail %d (%d left)", ch.Kind, ch.ID, ch.Remaining)
	if ch.Kind != inbox.ChangeDeleted {
		return
	}
	if c, ok := s.cards[ch.ID]; ok {
		c.Detach()
		delete(s.cards, ch.ID)
	}
	delete(s.outdated, ch.ID)
}
