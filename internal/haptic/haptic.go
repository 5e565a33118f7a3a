// Package haptic provides best-effort feedback pulses. Terminals have no
// vibration motor, so the bell stands in for it.
package haptic

import (
	"fmt"
	"io"
	"log"
	"time"
)

// Sink is an environment feedback capability that may not exist.
type Sink interface {
	Vibrate(pattern []time.Duration) error
}

// Nop ignores every pulse.
type Nop struct{}

// Vibrate does nothing.
func (Nop) Vibrate([]time.Duration) error { return nil }

// Bell rings the terminal bell once per pulse.
type Bell struct {
	W io.Writer
}

// Vibrate writes one BEL for every positive duration in pattern. Gaps
// (odd-indexed entries) are not slept on; the UI loop must never block.
func (b Bell) Vibrate(pattern []time.Duration) error {
	if b.W == nil {
		return fmt.Errorf("bell: no terminal writer")
	}
	for i, d := range pattern {
		if i%2 == 1 || d <= 0 {
			continue
		}
		if _, err := io.WriteString(b.W, "\a"); err != nil {
			return fmt.Errorf("bell: %w", err)
		}
	}
	return nil
}

// Func adapts a plain function to Sink.
type Func func(pattern []time.Duration) error

// Vibrate calls f.
func (f Func) Vibrate(pattern []time.Duration) error { return f(pattern) }

// Fire sends pattern to s and discards every failure: a nil sink, a
// returned error, or a panic inside the sink.
func Fire(s Sink, pattern []time.Duration) {
	if s == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("haptic: sink panicked: %v", r)
		}
	}()
	if err := s.Vibrate(pattern); err != nil {
		log.Printf("haptic: %v", err)
	}
}

// Pulse returns the single-pulse pattern of length d.
func Pulse(d time.Duration) []time.Duration {
	return []time.Duration{d}
}
