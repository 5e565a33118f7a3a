// Package transition decides which top-level view is visible and drives the
// timed envelope open/close sequence between the list and the letter.
package transition

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/letterbox/internal/model"
)

var (
	// ErrTransitionInFlight is returned for any request made while an
	// envelope animation is running.
	ErrTransitionInFlight = errors.New("envelope transition in flight")

	// ErrInvalidTransition is returned for a request the current view does
	// not accept.
	ErrInvalidTransition = errors.New("invalid view transition")
)

// Kind is the visible top-level view.
type Kind int

const (
	KindList Kind = iota
	KindComposing
	KindEnvelope
	KindDetail
)

// String returns the view name.
func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindComposing:
		return "composing"
	case KindEnvelope:
		return "envelope"
	case KindDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Phase is the direction of an envelope transition.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseClose
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseClose {
		return "close"
	}
	return "open"
}

// State is the active view. Phase is meaningful for KindEnvelope only;
// Target is set for KindEnvelope and KindDetail.
type State struct {
	Kind   Kind
	Phase  Phase
	Target *model.Mail
}

// String renders the state for logs.
func (s State) String() string {
	switch s.Kind {
	case KindEnvelope:
		return fmt.Sprintf("envelope(%s, %d)", s.Phase, targetID(s.Target))
	case KindDetail:
		return fmt.Sprintf("detail(%d)", targetID(s.Target))
	default:
		return s.Kind.String()
	}
}

func targetID(m *model.Mail) int {
	if m == nil {
		return 0
	}
	return m.ID
}

// DoneMsg resolves the envelope transition started with generation Gen.
type DoneMsg struct {
	Gen uint64
}

// FrameMsg asks for a redraw of the envelope animation of generation Gen.
type FrameMsg struct {
	Gen uint64
}

// Listener is notified after every state change.
type Listener func(from, to State)

// Machine is the view state holder. It owns no mail data beyond the
// subject of the current transition.
type Machine struct {
	state     State
	gen       uint64
	duration  time.Duration
	frame     time.Duration
	started   time.Time
	now       func() time.Time
	listeners []Listener
}

// New returns a machine showing the list. duration is the envelope length;
// frame is the redraw interval while it animates.
func New(duration, frame time.Duration) *Machine {
	return &Machine{
		state:    State{Kind: KindList},
		duration: duration,
		frame:    frame,
		now:      time.Now,
	}
}

// State returns the active view.
func (m *Machine) State() State { return m.state }

// InFlight reports whether an envelope transition is running.
func (m *Machine) InFlight() bool { return m.state.Kind == KindEnvelope }

// Generation returns the current transition generation.
func (m *Machine) Generation() uint64 { return m.gen }

// Duration returns the envelope length.
func (m *Machine) Duration() time.Duration { return m.duration }

// SetTiming changes the envelope length and frame interval. A running
// envelope keeps the timers it was started with.
func (m *Machine) SetTiming(duration, frame time.Duration) {
	m.duration = duration
	m.frame = frame
}

// Subscribe registers fn for state changes.
func (m *Machine) Subscribe(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

// Open starts the envelope-opening sequence for entry. Only valid from the
// list.
func (m *Machine) Open(entry model.Mail) (tea.Cmd, error) {
	if err := m.require(KindList); err != nil {
		return nil, err
	}
	e := entry.Clone()
	return m.startEnvelope(PhaseOpen, &e), nil
}

// Back starts the envelope-closing sequence from the letter.
func (m *Machine) Back() (tea.Cmd, error) {
	if err := m.require(KindDetail); err != nil {
		return nil, err
	}
	return m.startEnvelope(PhaseClose, m.state.Target), nil
}

// Deleted returns straight to the list after the open letter was deleted.
// There is no envelope animation on this path.
func (m *Machine) Deleted() error {
	if err := m.require(KindDetail); err != nil {
		return err
	}
	m.set(State{Kind: KindList})
	return nil
}

// Compose shows the compose view.
func (m *Machine) Compose() error {
	if err := m.require(KindList); err != nil {
		return err
	}
	m.set(State{Kind: KindComposing})
	return nil
}

// CancelCompose leaves the compose view.
func (m *Machine) CancelCompose() error {
	return m.leaveCompose()
}

// SendCompose leaves the compose view; sending is a no-op.
func (m *Machine) SendCompose() error {
	return m.leaveCompose()
}

func (m *Machine) leaveCompose() error {
	if err := m.require(KindComposing); err != nil {
		return err
	}
	m.set(State{Kind: KindList})
	return nil
}

// HandleDone resolves the running envelope if msg belongs to it. Stale
// messages are ignored and reported as false.
func (m *Machine) HandleDone(msg DoneMsg) bool {
	if !m.InFlight() || msg.Gen != m.gen {
		return false
	}

	if m.state.Phase == PhaseOpen {
		m.set(State{Kind: KindDetail, Target: m.state.Target})
	} else {
		m.set(State{Kind: KindList})
	}
	return true
}

// HandleFrame returns the next frame tick while msg's envelope is still
// animating.
func (m *Machine) HandleFrame(msg FrameMsg) tea.Cmd {
	if !m.InFlight() || msg.Gen != m.gen {
		return nil
	}
	return m.frameTick(m.gen)
}

// Progress returns how far the running envelope has animated, in [0, 1].
// Outside a transition it is 1.
func (m *Machine) Progress() float64 {
	if !m.InFlight() || m.duration <= 0 {
		return 1
	}
	p := float64(m.now().Sub(m.started)) / float64(m.duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

func (m *Machine) require(k Kind) error {
	if m.InFlight() {
		return ErrTransitionInFlight
	}
	if m.state.Kind != k {
		return fmt.Errorf("%w: requires %s, showing %s", ErrInvalidTransition, k, m.state)
	}
	return nil
}

func (m *Machine) startEnvelope(phase Phase, target *model.Mail) tea.Cmd {
	m.started = m.now()
	m.set(State{Kind: KindEnvelope, Phase: phase, Target: target})

	gen := m.gen
	return tea.Batch(
		tea.Tick(m.duration, func(time.Time) tea.Msg {
			return DoneMsg{Gen: gen}
		}),
		m.frameTick(gen),
	)
}

func (m *Machine) frameTick(gen uint64) tea.Cmd {
	if m.frame <= 0 {
		return nil
	}
	return tea.Tick(m.frame, func(time.Time) tea.Msg {
		return FrameMsg{Gen: gen}
	})
}

// set installs next, bumping the generation so every timer armed for the
// previous state becomes stale.
func (m *Machine) set(next State) {
	prev := m.state
	m.state = next
	m.gen++
	for _, fn := range m.listeners {
		fn(prev, next)
	}
}
