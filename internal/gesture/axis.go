// Package gesture turns a 1-D card displacement into a clamped position,
// its derived visuals, and commit decisions.
package gesture

import "math"

// DefaultMax is the stock displacement clamp.
const DefaultMax = 160.0

// Rotation at either extreme of the axis, in degrees.
const maxRotationDeg = 6.0

// Overlay ramps. The delete badge fades in between -40 and -100, the
// important badge between 40 and 100.
const (
	overlayFadeStart = 40.0
	overlayFadeFull  = 100.0
)

// Axis holds the current position of one card on a closed range
// [-Max, Max].
type Axis struct {
	max float64
	pos float64
}

// NewAxis returns an axis clamped to [-bound, bound]. A non-positive bound falls
// back to DefaultMax.
func NewAxis(bound float64) *Axis {
	if bound <= 0 {
		bound = DefaultMax
	}
	return &Axis{max: bound}
}

// Max returns the clamp bound.
func (a *Axis) Max() float64 { return a.max }

// Position returns the current position.
func (a *Axis) Position() float64 { return a.pos }

// Update clamps raw into range, stores it and returns it. Out-of-range
// values saturate; NaN is treated as 0.
func (a *Axis) Update(raw float64) float64 {
	a.pos = Clamp(raw, a.max)
	return a.pos
}

// Nudge moves the position by delta and reclamps.
func (a *Axis) Nudge(delta float64) float64 {
	return a.Update(a.pos + delta)
}

// Reset returns the card to neutral.
func (a *Axis) Reset() {
	a.pos = 0
}

// Visuals derives the rendering parameters for the current position.
func (a *Axis) Visuals() Visuals {
	return Derive(a.pos, a.max)
}

// Clamp saturates v into [-bound, bound].
func Clamp(v, bound float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > bound:
		return bound
	case v < -bound:
		return -bound
	default:
		return v
	}
}

// Visuals are the presentation parameters derived from a position.
type Visuals struct {
	// RotationDeg runs linearly from -6 at -Max to +6 at +Max.
	RotationDeg float64

	// ShadowBlend is 0 for the neutral shadow at centre and 1 for the edge
	// shadow at either extreme.
	ShadowBlend float64

	// LeftOverlay is the delete badge opacity.
	LeftOverlay float64

	// RightOverlay is the important badge opacity.
	RightOverlay float64
}

// Derive computes Visuals for position on an axis bounded by bound. It is
// pure and clamps position first.
func Derive(position, bound float64) Visuals {
	if bound <= 0 {
		bound = DefaultMax
	}
	p := Clamp(position, bound)

	return Visuals{
		RotationDeg:  p / bound * maxRotationDeg,
		ShadowBlend:  math.Abs(p) / bound,
		LeftOverlay:  ramp(-p),
		RightOverlay: ramp(p),
	}
}

// ramp maps x in [overlayFadeStart, overlayFadeFull] onto [0, 1]. Anything
// at or below the fade start is 0, so the two sides never overlap.
func ramp(x float64) float64 {
	switch {
	case x <= overlayFadeStart:
		return 0
	case x >= overlayFadeFull:
		return 1
	default:
		return (x - overlayFadeStart) / (overlayFadeFull - overlayFadeStart)
	}
}
