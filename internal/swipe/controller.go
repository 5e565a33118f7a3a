// Package swipe binds a card's gesture axis and commit policy to the two
// input channels (direct drag and discrete wheel impulses) and applies the
// settled action to the inbox.
package swipe

import (
	"log"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/letterbox/internal/gesture"
	"github.com/nhle/letterbox/internal/haptic"
)

// Mutator is the subset of the inbox a card may change.
type Mutator interface {
	Delete(id int) bool
	ToggleImportant(id int) bool
}

// Settings configures a controller.
type Settings struct {
	Max             float64
	DeleteThreshold float64
	FlagThreshold   float64

	// Damping scales each accepted wheel impulse.
	Damping float64

	// SettleDelay is the quiet period after the last impulse.
	SettleDelay time.Duration

	// ArmPulse is played when a threshold is crossed, CommitPulse when a
	// delete or flag is applied. Nil disables the pulse.
	ArmPulse    []time.Duration
	CommitPulse []time.Duration
}

// DefaultSettings returns the stock geometry and timing.
func DefaultSettings() Settings {
	return Settings{
		Max:             gesture.DefaultMax,
		DeleteThreshold: gesture.DefaultDeleteThreshold,
		FlagThreshold:   gesture.DefaultFlagThreshold,
		Damping:         0.6,
		SettleDelay:     160 * time.Millisecond,
		ArmPulse:        haptic.Pulse(10 * time.Millisecond),
		CommitPulse:     haptic.Pulse(10 * time.Millisecond),
	}
}

// SettleMsg is delivered when a card's wheel quiet period elapses.
type SettleMsg struct {
	CardID int
	Gen    uint64
}

// Controller owns the gesture state of one card.
type Controller struct {
	id       int
	settings Settings
	axis     *gesture.Axis
	policy   gesture.Policy
	flags    gesture.EdgeFlags
	decision gesture.Decision
	target   Mutator
	sink     haptic.Sink

	// gen is bumped on every arm and every cancel so that only the most
	// recent settle timer can fire.
	gen      uint64
	pending  bool
	dragging bool
	detached bool
}

// New returns a controller for the card with id.
func New(id int, s Settings, target Mutator, sink haptic.Sink) *Controller {
	return &Controller{
		id:       id,
		settings: s,
		axis:     gesture.NewAxis(s.Max),
		policy: gesture.Policy{
			DeleteThreshold: s.DeleteThreshold,
			FlagThreshold:   s.FlagThreshold,
		},
		target: target,
		sink:   sink,
	}
}

// ID returns the card's mail ID.
func (c *Controller) ID() int { return c.id }

// Position returns the current displacement.
func (c *Controller) Position() float64 { return c.axis.Position() }

// Visuals returns the derived rendering parameters.
func (c *Controller) Visuals() gesture.Visuals { return c.axis.Visuals() }

// Decision returns the armed state of the current gesture.
func (c *Controller) Decision() gesture.Decision { return c.decision }

// Dragging reports whether a direct manipulation is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Idle reports whether the card is at rest with nothing pending.
func (c *Controller) Idle() bool {
	return !c.dragging && !c.pending && c.axis.Position() == 0
}

// Pending returns the generation of the armed settle timer, if any.
func (c *Controller) Pending() (uint64, bool) { return c.gen, c.pending }

// Detached reports whether the card has been removed.
func (c *Controller) Detached() bool { return c.detached }

// Detach marks the card as removed. Every later call is a no-op and any
// settle timer still in flight is ignored when it fires.
func (c *Controller) Detach() {
	c.cancelSettle()
	c.detached = true
	c.dragging = false
}

// Drag sets the position from the total drag offset and evaluates the
// policy. It cancels any pending wheel settle.
func (c *Controller) Drag(offset float64) {
	if c.detached {
		return
	}
	c.cancelSettle()
	c.dragging = true
	c.axis.Update(offset)
	c.evaluate()
}

// Release ends a drag and settles immediately at the current position.
func (c *Controller) Release() gesture.FinalAction {
	if c.detached || !c.dragging {
		return gesture.SnapBack
	}
	c.dragging = false
	return c.settle()
}

// Cancel abandons a drag without committing: the card returns to rest and
// no action or pulse fires.
func (c *Controller) Cancel() {
	if c.detached || !c.dragging {
		return
	}
	c.dragging = false
	log.Printf("swipe: card %d drag cancelled at %.1f", c.id, c.axis.Position())
	c.resetGesture()
}

// Impulse applies a wheel or key impulse. Vertical-dominant impulses are
// ignored. Accepted impulses nudge the position by dx*Damping and (re)arm
// the settle timer; the returned command delivers a SettleMsg once the
// quiet period passes.
func (c *Controller) Impulse(dx, dy float64) tea.Cmd {
	if c.detached || c.dragging {
		return nil
	}
	if dx == 0 || math.Abs(dy) > math.Abs(dx) {
		return nil
	}

	c.axis.Nudge(dx * c.settings.Damping)
	c.evaluate()

	c.gen++
	c.pending = true

	id, gen := c.id, c.gen
	return tea.Tick(c.settings.SettleDelay, func(time.Time) tea.Msg {
		return SettleMsg{CardID: id, Gen: gen}
	})
}

// HandleSettle settles the card if msg belongs to the latest armed timer.
// The second result is false for stale or foreign messages, which change
// nothing.
func (c *Controller) HandleSettle(msg SettleMsg) (gesture.FinalAction, bool) {
	if c.detached || msg.CardID != c.id || !c.pending || msg.Gen != c.gen {
		return gesture.SnapBack, false
	}
	return c.settle(), true
}

func (c *Controller) evaluate() {
	ev := c.policy.Evaluate(c.axis.Position(), &c.flags)
	c.decision = ev.Decision
	if ev.Event != gesture.SideNone && c.settings.ArmPulse != nil {
		haptic.Fire(c.sink, c.settings.ArmPulse)
	}
}

// settle resolves the current position and applies the action.
func (c *Controller) settle() gesture.FinalAction {
	c.cancelSettle()

	action := c.policy.Settle(c.axis.Position())
	log.Printf("swipe: card %d settled at %.1f -> %s", c.id, c.axis.Position(), action)

	c.resetGesture()

	switch action {
	case gesture.Delete:
		c.detached = true
		c.target.Delete(c.id)
		c.commitPulse()
	case gesture.Flag:
		c.target.ToggleImportant(c.id)
		c.commitPulse()
	}

	return action
}

func (c *Controller) resetGesture() {
	c.axis.Reset()
	c.flags = gesture.EdgeFlags{}
	c.decision = gesture.DecisionNone
}

func (c *Controller) cancelSettle() {
	if c.pending {
		c.gen++
		c.pending = false
	}
}

func (c *Controller) commitPulse() {
	if c.settings.CommitPulse != nil {
		haptic.Fire(c.sink, c.settings.CommitPulse)
	}
}
