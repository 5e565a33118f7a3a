package app

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/letterbox/internal/haptic"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/seed"
	"github.com/nhle/letterbox/internal/session"
	"github.com/nhle/letterbox/internal/transition"
	"github.com/nhle/letterbox/internal/ui/cardstack"
	"github.com/nhle/letterbox/internal/ui/command"
	"github.com/nhle/letterbox/internal/ui/compose"
	configview "github.com/nhle/letterbox/internal/ui/config"
	"github.com/nhle/letterbox/internal/ui/letter"
)

func fastConfig() *model.AppConfig {
	cfg := model.DefaultAppConfig()
	cfg.Transition.EnvelopeMs = 1
	cfg.Transition.FrameMs = 0
	cfg.Gesture.SettleMs = 1
	return cfg
}

func newTestApp(t *testing.T) (Model, *session.Session) {
	t.Helper()
	cfg := fastConfig()
	sess := session.New(seed.Sample(), cfg, haptic.Nop{})
	m := New(sess, cfg, "")
	m, _ = step(m, tea.WindowSizeMsg{Width: 80, Height: 40})
	return m, sess
}

func step(m Model, msg tea.Msg) (Model, tea.Cmd) {
	tm, cmd := m.Update(msg)
	return tm.(Model), cmd
}

// exec runs cmd and flattens batches into their messages.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// run feeds msg and every message its commands produce back into m.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 50, "message loop did not settle")
		next := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = step(m, next)
		queue = append(queue, exec(cmd)...)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeSize(t *testing.T) {
	sess := session.New(seed.Sample(), nil, nil)
	m := New(sess, nil, "")
	assert.Equal(t, "Loading...", m.View())
}

func TestListView(t *testing.T) {
	m, _ := newTestApp(t)
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "inbox")
	assert.Contains(t, out, "3 new mails")
	assert.Contains(t, out, "carl")
	assert.Contains(t, out, "write")
}

func TestOpenAndBack(t *testing.T) {
	m, sess := newTestApp(t)

	m = run(t, m, cardstack.OpenMsg{ID: 1})
	require.Equal(t, transition.KindDetail, sess.State().Kind)
	got, ok := m.letter.Mail()
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)
	assert.Contains(t, ansi.Strip(m.View()), "coffee on sunday?")

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, transition.KindList, sess.State().Kind)
	assert.Equal(t, 3, sess.Count())
}

func TestDeleteFromLetter(t *testing.T) {
	m, sess := newTestApp(t)

	m = run(t, m, cardstack.OpenMsg{ID: 2})
	require.Equal(t, transition.KindDetail, sess.State().Kind)

	run(t, m, keyRunes("D"))
	assert.Equal(t, transition.KindList, sess.State().Kind)
	assert.Equal(t, 2, sess.Count())
	_, ok := sess.Mail(2)
	assert.False(t, ok)
}

func TestSendReply(t *testing.T) {
	m, sess := newTestApp(t)

	m = run(t, m, cardstack.OpenMsg{ID: 3})
	run(t, m, letter.SendReplyMsg{Text: "count me in"})

	assert.Equal(t, transition.KindList, sess.State().Kind)
	require.Len(t, sess.Sent(), 1)
	assert.Equal(t, 3, sess.Sent()[0].InReplyTo)
}

func TestKeySwipeDeletesSelectedCard(t *testing.T) {
	m, sess := newTestApp(t)

	// 0.6 damping on 40 per press: six presses pass -120.
	var cmd tea.Cmd
	for i := 0; i < 6; i++ {
		m, cmd = step(m, keyRunes("h"))
	}
	require.NotNil(t, cmd)
	for _, msg := range exec(cmd) {
		m, _ = step(m, msg)
	}

	assert.Equal(t, 2, sess.Count())
	_, ok := sess.Mail(1)
	assert.False(t, ok)
	id, ok := m.stack.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestComposeSendAndCancel(t *testing.T) {
	m, sess := newTestApp(t)

	m, _ = step(m, cardstack.ComposeMsg{})
	require.Equal(t, transition.KindComposing, sess.State().Kind)
	assert.Contains(t, ansi.Strip(m.View()), "new letter")

	m, _ = step(m, compose.SendMsg{Draft: model.NewDraft("kim", "hello", "hi kim")})
	assert.Equal(t, transition.KindList, sess.State().Kind)
	require.Len(t, sess.Sent(), 1)

	m, _ = step(m, cardstack.ComposeMsg{})
	step(m, compose.CancelMsg{})
	assert.Equal(t, transition.KindList, sess.State().Kind)
	assert.Len(t, sess.Sent(), 1)
}

func TestOpenUnknownShowsStatus(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = step(m, cardstack.OpenMsg{ID: 99})
	assert.Contains(t, ansi.Strip(m.View()), "unknown mail")

	// The next key clears the hint.
	m, _ = step(m, keyRunes("j"))
	assert.NotContains(t, ansi.Strip(m.View()), "unknown mail")
}

func TestRequestsDuringEnvelopeAreDropped(t *testing.T) {
	m, sess := newTestApp(t)

	m, cmd := step(m, cardstack.OpenMsg{ID: 1})
	require.NotNil(t, cmd)
	require.True(t, sess.State().Kind == transition.KindEnvelope)

	m, _ = step(m, cardstack.OpenMsg{ID: 2})
	assert.Equal(t, 1, sess.State().Target.ID)
	assert.Empty(t, m.status)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = step(m, keyRunes("?"))
	assert.Equal(t, overlayHelp, m.overlay)
	assert.Contains(t, ansi.Strip(m.View()), "keys")

	// q does not quit while help is open.
	m, cmd := step(m, keyRunes("q"))
	assert.Nil(t, cmd)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, overlayNone, m.overlay)

	// The help key closes the overlay as well.
	m, _ = step(m, keyRunes("?"))
	m = run(t, m, keyRunes("?"))
	assert.Equal(t, overlayNone, m.overlay)
}

func TestQuitFromList(t *testing.T) {
	m, _ := newTestApp(t)
	_, cmd := step(m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestConfigReload(t *testing.T) {
	m, sess := newTestApp(t)

	cfg := fastConfig()
	cfg.User.Name = "alex"
	cfg.Gesture.KeyImpulse = 100
	m, _ = step(m, ConfigReloadedMsg{Config: cfg})
	assert.Contains(t, ansi.Strip(m.View()), "alex")

	// One press now moves the card by 100 * 0.6.
	step(m, keyRunes("h"))
	assert.InDelta(t, -60, sess.Position(1), 1e-9)

	m, _ = step(m, ConfigReloadedMsg{Err: errors.New("bad yaml")})
	assert.Contains(t, ansi.Strip(m.View()), "config: bad yaml")
}

func TestCommandPalette(t *testing.T) {
	m, sess := newTestApp(t)

	m, _ = step(m, keyRunes(":"))
	require.Equal(t, overlayCommand, m.overlay)

	// Keys go to the palette, so q does not quit.
	m, _ = step(m, keyRunes("q"))
	assert.Equal(t, overlayCommand, m.overlay)
	assert.Equal(t, "q", m.commandView.Value())

	m, _ = step(m, command.CommandMsg("write"))
	assert.Equal(t, overlayNone, m.overlay)
	assert.Equal(t, transition.KindComposing, sess.State().Kind)
}

func TestUnknownCommand(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = step(m, command.CommandMsg("dance"))
	assert.Contains(t, ansi.Strip(m.View()), "unknown command: dance")
}

func TestSettingsSaved(t *testing.T) {
	m, sess := newTestApp(t)

	m, _ = step(m, command.CommandMsg("settings"))
	require.Equal(t, overlaySettings, m.overlay)
	assert.Contains(t, ansi.Strip(m.View()), "settings")

	cfg := fastConfig()
	cfg.User.Name = "robin"
	m, _ = step(m, configview.ConfigSavedMsg{Config: cfg})
	assert.Equal(t, overlayNone, m.overlay)
	assert.Equal(t, "robin", m.cfg.User.Name)
	assert.Equal(t, 3, sess.Count())
	assert.Contains(t, ansi.Strip(m.View()), "robin")
}

func TestSettingsDiscarded(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = step(m, command.CommandMsg("settings"))
	m, _ = step(m, configview.ConfigDoneMsg{})
	assert.Equal(t, overlayNone, m.overlay)
	assert.Contains(t, ansi.Strip(m.View()), "3 new mails")
}

func mouseAt(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestOpenKeyWaitsForDrag(t *testing.T) {
	m, sess := newTestApp(t)

	m, _ = step(m, mouseAt(tea.MouseActionPress, tea.MouseButtonLeft, 40, 5))
	m, _ = step(m, mouseAt(tea.MouseActionMotion, tea.MouseButtonLeft, 30, 5))
	require.True(t, m.stack.Dragging())
	require.InDelta(t, -40, sess.Position(1), 1e-9)

	m, _ = step(m, keyRunes("k"))
	m, _ = step(m, keyRunes("j"))
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, transition.KindList, sess.State().Kind)

	m = run(t, m, mouseAt(tea.MouseActionRelease, tea.MouseButtonNone, 30, 5))
	assert.False(t, m.stack.Dragging())
	assert.True(t, sess.Card(1).Idle())
	assert.Equal(t, 3, sess.Count())
}

func TestLeavingListCancelsDrag(t *testing.T) {
	m, sess := newTestApp(t)

	m, _ = step(m, mouseAt(tea.MouseActionPress, tea.MouseButtonLeft, 40, 5))
	m, _ = step(m, mouseAt(tea.MouseActionMotion, tea.MouseButtonLeft, 5, 5))
	require.Less(t, sess.Position(1), -120.0)

	m, _ = step(m, keyRunes(":"))
	require.Equal(t, overlayCommand, m.overlay)
	assert.False(t, m.stack.Dragging())
	assert.True(t, sess.Card(1).Idle())

	m, _ = step(m, command.CommandMsg("write"))
	require.Equal(t, transition.KindComposing, sess.State().Kind)
	m, _ = step(m, mouseAt(tea.MouseActionRelease, tea.MouseButtonNone, 5, 5))
	m, _ = step(m, compose.CancelMsg{})

	// The abandoned drag committed nothing and card 1 opens normally.
	assert.Equal(t, 3, sess.Count())
	m = run(t, m, cardstack.OpenMsg{ID: 1})
	assert.Equal(t, transition.KindDetail, sess.State().Kind)
	got, ok := m.letter.Mail()
	require.True(t, ok)
	assert.Equal(t, 1, got.ID)
}

func TestHelpCancelsDrag(t *testing.T) {
	m, sess := newTestApp(t)

	m, _ = step(m, mouseAt(tea.MouseActionPress, tea.MouseButtonLeft, 40, 13))
	m, _ = step(m, mouseAt(tea.MouseActionMotion, tea.MouseButtonLeft, 50, 13))
	require.InDelta(t, 40, sess.Position(2), 1e-9)

	m, _ = step(m, keyRunes("?"))
	assert.False(t, m.stack.Dragging())
	assert.Zero(t, sess.Position(2))
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, overlayNone, m.overlay)
}

func TestReloadOfSavedConfigIsSkipped(t *testing.T) {
	m, sess := newTestApp(t)

	cfg := fastConfig()
	cfg.User.Name = "robin"
	m, _ = step(m, command.CommandMsg("settings"))
	m, _ = step(m, configview.ConfigSavedMsg{Config: cfg})
	card := sess.Card(1)

	// The watcher reports the file just written.
	reread := fastConfig()
	reread.User.Name = "robin"
	reread.Seed.Source = "mbox"
	m, _ = step(m, ConfigReloadedMsg{Config: reread})
	assert.Same(t, card, sess.Card(1))
	assert.Same(t, cfg, m.cfg)

	changed := fastConfig()
	changed.User.Name = "robin"
	changed.Gesture.Damping = 0.5
	changed.Seed.Source = "mbox"
	m, _ = step(m, ConfigReloadedMsg{Config: changed})
	assert.NotSame(t, card, sess.Card(1))
	assert.Equal(t, 0.5, m.cfg.Gesture.Damping)
	assert.Equal(t, cfg.Seed, m.cfg.Seed)
}
