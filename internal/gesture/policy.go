package gesture

// Stock commit thresholds.
const (
	DefaultDeleteThreshold = -120.0
	DefaultFlagThreshold   = 120.0
)

// Decision is the level-triggered state of a gesture.
type Decision int

const (
	DecisionNone Decision = iota
	ArmedDelete
	ArmedFlag
)

// String returns a short label for logs.
func (d Decision) String() string {
	switch d {
	case ArmedDelete:
		return "armed-delete"
	case ArmedFlag:
		return "armed-flag"
	default:
		return "none"
	}
}

// SideEvent is the edge-triggered notification fired on entering an armed
// state.
type SideEvent int

const (
	SideNone SideEvent = iota
	SideLeft
	SideRight
)

// FinalAction is what a settled gesture resolves to.
type FinalAction int

const (
	SnapBack FinalAction = iota
	Delete
	Flag
)

// String returns a short label for logs.
func (a FinalAction) String() string {
	switch a {
	case Delete:
		return "delete"
	case Flag:
		return "flag"
	default:
		return "snap-back"
	}
}

// EdgeFlags latch whether the current gesture already fired its one-shot
// feedback for each side.
type EdgeFlags struct {
	CrossedLeft  bool
	CrossedRight bool
}

// Evaluation is the result of Policy.Evaluate.
type Evaluation struct {
	Decision Decision
	Event    SideEvent
}

// Policy decides armed states and final actions from a position.
type Policy struct {
	DeleteThreshold float64
	FlagThreshold   float64
}

// DefaultPolicy returns the stock ±120 thresholds.
func DefaultPolicy() Policy {
	return Policy{
		DeleteThreshold: DefaultDeleteThreshold,
		FlagThreshold:   DefaultFlagThreshold,
	}
}

// Evaluate classifies position and updates flags. Event is non-zero only on
// the transition into an armed side. The left latch clears once position
// rises strictly above DeleteThreshold; the right latch once it falls
// strictly below FlagThreshold.
func (p Policy) Evaluate(position float64, flags *EdgeFlags) Evaluation {
	var ev Evaluation

	if position > p.DeleteThreshold {
		flags.CrossedLeft = false
	}
	if position < p.FlagThreshold {
		flags.CrossedRight = false
	}

	switch {
	case position <= p.DeleteThreshold:
		ev.Decision = ArmedDelete
		if !flags.CrossedLeft {
			flags.CrossedLeft = true
			ev.Event = SideLeft
		}
	case position >= p.FlagThreshold:
		ev.Decision = ArmedFlag
		if !flags.CrossedRight {
			flags.CrossedRight = true
			ev.Event = SideRight
		}
	}

	return ev
}

// Settle resolves a released position. A position exactly on a threshold
// snaps back; it must travel past it to commit.
func (p Policy) Settle(position float64) FinalAction {
	switch {
	case position < p.DeleteThreshold:
		return Delete
	case position > p.FlagThreshold:
		return Flag
	default:
		return SnapBack
	}
}
