package letter

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/letterbox/internal/keys"
	"github.com/nhle/letterbox/internal/model"
)

func testMail() model.Mail {
	return model.Mail{
		ID:        1,
		Sender:    "carl",
		Subject:   "bonanza",
		Timestamp: "12:53",
		Body:      []string{"hi sam,", "see you at the bonanza."},
	}
}

func press(m Model, k tea.KeyMsg) (Model, tea.Msg) {
	m, cmd := m.Update(k)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestViewWithoutMail(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 20)
	assert.Contains(t, m.View(), "No letter open")
	_, ok := m.Mail()
	assert.False(t, ok)
}

func TestViewRendersLetter(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 30)
	m.SetMail(testMail())

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "12:53")
	assert.Contains(t, out, "bonanza")
	assert.Contains(t, out, "see you at the bonanza.")
}

func TestKeysEmitMessages(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 20)
	m.SetMail(testMail())

	_, msg := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, BackMsg{}, msg)

	_, msg = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("D")})
	assert.Equal(t, DeleteMsg{}, msg)
}

func TestReplyFocusAndSend(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 20)
	m.SetMail(testMail())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.Replying())

	for _, r := range "on my way" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, msg := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, SendReplyMsg{Text: "on my way"}, msg)

	// Esc leaves the reply box instead of closing the letter.
	m, msg = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, msg)
	assert.False(t, m.Replying())
}

func TestSetMailClearsReply(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 20)
	m.SetMail(testMail())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	m.SetMail(testMail())
	assert.False(t, m.Replying())
	_, msg := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, SendReplyMsg{Text: ""}, msg)
}
