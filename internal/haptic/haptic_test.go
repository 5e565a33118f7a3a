package haptic

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestBellRingsOncePerPulse(t *testing.T) {
	var buf bytes.Buffer
	b := Bell{W: &buf}

	require.NoError(t, b.Vibrate([]time.Duration{10 * time.Millisecond, 50 * time.Millisecond, 10 * time.Millisecond}))
	assert.Equal(t, "\a\a", buf.String())
}

func TestBellWithoutWriterErrors(t *testing.T) {
	assert.Error(t, Bell{}.Vibrate(Pulse(time.Millisecond)))
}

func TestFireSwallowsFailures(t *testing.T) {
	assert.NotPanics(t, func() { Fire(nil, Pulse(time.Millisecond)) })
	assert.NotPanics(t, func() { Fire(Bell{W: failingWriter{}}, Pulse(time.Millisecond)) })
	assert.NotPanics(t, func() {
		Fire(Func(func([]time.Duration) error { panic("no vibration api") }), Pulse(time.Millisecond))
	})
	assert.NotPanics(t, func() { Fire(Nop{}, Pulse(time.Millisecond)) })
}

func TestFireDeliversPattern(t *testing.T) {
	var got []time.Duration
	Fire(Func(func(p []time.Duration) error {
		got = p
		return nil
	}), Pulse(10*time.Millisecond))

	assert.Equal(t, []time.Duration{10 * time.Millisecond}, got)
}
