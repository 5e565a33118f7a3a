package cardstack

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/letterbox/internal/gesture"
	"github.com/nhle/letterbox/internal/keys"
	"github.com/nhle/letterbox/internal/model"
)

type call struct {
	op     string
	id     int
	amount float64
}

type fakeDeck struct {
	mails     []model.Mail
	positions map[int]float64
	calls     []call
}

func newFakeDeck(n int) *fakeDeck {
	d := &fakeDeck{positions: map[int]float64{}}
	names := []string{"carl", "olivia", "devon", "kim"}
	for i := 0; i < n; i++ {
		d.mails = append(d.mails, model.Mail{
			ID:        i + 1,
			Sender:    names[i%len(names)],
			Subject:   "subject",
			Preview:   "preview",
			Timestamp: "12:00",
		})
	}
	return d
}

func (d *fakeDeck) Mails() []model.Mail { return d.mails }

func (d *fakeDeck) Visuals(id int) gesture.Visuals {
	return gesture.Derive(d.positions[id], gesture.DefaultMax)
}

func (d *fakeDeck) Position(id int) float64 { return d.positions[id] }

func (d *fakeDeck) Drag(id int, offset float64) {
	d.positions[id] = offset
	d.calls = append(d.calls, call{"drag", id, offset})
}

func (d *fakeDeck) Release(id int) gesture.FinalAction {
	d.positions[id] = 0
	d.calls = append(d.calls, call{"release", id, 0})
	return gesture.SnapBack
}

func (d *fakeDeck) CancelDrag(id int) {
	d.positions[id] = 0
	d.calls = append(d.calls, call{"cancel", id, 0})
}

func (d *fakeDeck) Impulse(id int, dx, _ float64) tea.Cmd {
	d.calls = append(d.calls, call{"impulse", id, dx})
	return nil
}

func (d *fakeDeck) Greeting(time.Time) string { return "good morning" }

func (d *fakeDeck) CountLabel() string { return "3 new mails" }

var testOptions = Options{Max: 160, UnitsPerCell: 4, KeyImpulse: 40}

func newTestStack(d *fakeDeck) Model {
	return New(d, keys.DefaultKeyMap(), testOptions, 60, 40, 1)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func msgOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestViewLayout(t *testing.T) {
	m := newTestStack(newFakeDeck(3))
	lines := strings.Split(ansi.Strip(m.View()), "\n")

	assert.Contains(t, lines[0], "good morning, you have")
	assert.Contains(t, lines[1], "3 new mails")
	assert.Contains(t, lines[4], "carl")
	assert.Contains(t, lines[12], "olivia")
	assert.Contains(t, lines[18], "devon")
	assert.Contains(t, lines[m.writeRow()], "write")
	for _, l := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(l), 60)
	}
}

func TestViewEmpty(t *testing.T) {
	m := newTestStack(newFakeDeck(0))
	lines := strings.Split(ansi.Strip(m.View()), "\n")

	assert.Contains(t, lines[3], "all caught up")
	assert.Contains(t, lines[m.writeRow()], "write")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestKeysSelectAndSwipe(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)

	m, _ = m.Update(keyRunes("j"))
	id, _ := m.Selected()
	assert.Equal(t, 2, id)

	m, _ = m.Update(keyRunes("h"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, []call{{"impulse", 2, -40}, {"impulse", 2, 40}}, d.calls)

	m, _ = m.Update(keyRunes("k"))
	m, _ = m.Update(keyRunes("k"))
	id, _ = m.Selected()
	assert.Equal(t, 1, id)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, OpenMsg{ID: 1}, msgOf(t, cmd))

	_, cmd = m.Update(keyRunes("w"))
	assert.Equal(t, ComposeMsg{}, msgOf(t, cmd))
}

func TestClickOpensCard(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)

	// Card 2 starts at content row 11, terminal row 12.
	m, _ = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 20, 13))
	assert.True(t, m.Dragging())
	m, cmd := m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 20, 13))
	assert.False(t, m.Dragging())
	assert.Equal(t, OpenMsg{ID: 2}, msgOf(t, cmd))
	assert.Empty(t, d.calls)
}

func TestDragFeedsOffsetAndReleases(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)

	m, _ = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 30, 5))
	m, _ = m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 24, 5))
	m, _ = m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 20, 6))
	m, cmd := m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 20, 6))

	assert.Nil(t, cmd)
	assert.Equal(t, []call{
		{"drag", 1, -24},
		{"drag", 1, -40},
		{"release", 1, 0},
	}, d.calls)
}

func TestWheelSidewaysSwipesCardUnderPointer(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)

	m, _ = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelLeft, 10, 19))
	m, _ = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelRight, 10, 19))
	// Between cards nothing is hit.
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelLeft, 10, 10))

	assert.Equal(t, []call{{"impulse", 3, -40}, {"impulse", 3, 40}}, d.calls)
}

func TestClickWriteComposes(t *testing.T) {
	m := newTestStack(newFakeDeck(3))
	_, cmd := m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 30, 1+m.writeRow()))
	assert.Equal(t, ComposeMsg{}, msgOf(t, cmd))
}

func TestRefreshClampsSelection(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))

	d.mails = d.mails[:2]
	m.Refresh()
	assert.Equal(t, 1, m.selected)
	id, _ := m.Selected()
	assert.Equal(t, 2, id)
}

func TestScrollKeepsSelectionVisible(t *testing.T) {
	d := newFakeDeck(8)
	m := New(d, keys.DefaultKeyMap(), testOptions, 60, 24, 1)

	for i := 0; i < 7; i++ {
		m, _ = m.Update(keyRunes("j"))
	}
	visible := false
	for _, s := range m.slots() {
		if s.index == 7 {
			visible = true
		}
	}
	assert.True(t, visible)
	assert.Greater(t, m.scroll, 0)
}

func TestCardShiftFollowsPosition(t *testing.T) {
	f := newCardFrame(60, 160)
	assert.Equal(t, 12, f.margin)
	assert.Equal(t, 0, f.shift(0))
	assert.Equal(t, -12, f.shift(-160))
	assert.Equal(t, 6, f.shift(80))

	moved := ansi.Strip(f.renderCard(model.Mail{Sender: "carl"}, gesture.Derive(-160, 160), -160, false))
	rest := ansi.Strip(f.renderCard(model.Mail{Sender: "carl"}, gesture.Derive(0, 160), 0, false))
	assert.Contains(t, moved, "delete")
	assert.NotContains(t, rest, "delete")
	assert.Len(t, strings.Split(moved, "\n"), cardHeight+1)
}

func TestKeysWaitForDragToEnd(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)

	m, _ = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 30, 5))
	m, _ = m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 24, 5))
	m, _ = m.Update(keyRunes("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	_, cmd = m.Update(keyRunes("w"))
	assert.Nil(t, cmd)

	m.CancelDrag()
	assert.False(t, m.Dragging())
	assert.Equal(t, []call{{"drag", 1, -24}, {"cancel", 1, 0}}, d.calls)

	// The late release no longer belongs to a drag.
	_, cmd = m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 24, 5))
	assert.Nil(t, cmd)
	assert.Len(t, d.calls, 2)
}

func TestCancelDragWithoutMotion(t *testing.T) {
	d := newFakeDeck(3)
	m := newTestStack(d)

	m, _ = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 30, 5))
	m.CancelDrag()
	assert.False(t, m.Dragging())
	assert.Empty(t, d.calls)
}
