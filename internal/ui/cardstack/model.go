package cardstack

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/gesture"
	"github.com/nhle/letterbox/internal/keys"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/theme"
)

// introLines is the height of the greeting block above the first card.
const introLines = 3

// Deck is what the card stack reads and drives.
type Deck interface {
	Mails() []model.Mail
	Visuals(id int) gesture.Visuals
	Position(id int) float64
	Drag(id int, offset float64)
	Release(id int) gesture.FinalAction
	CancelDrag(id int)
	Impulse(id int, dx, dy float64) tea.Cmd
	Greeting(now time.Time) string
	CountLabel() string
}

// OpenMsg asks the parent to open the letter with ID.
type OpenMsg struct {
	ID int
}

// ComposeMsg asks the parent to show the compose view.
type ComposeMsg struct{}

// Options tunes input mapping.
type Options struct {
	// Max is the gesture clamp, used to scale the card displacement.
	Max float64

	// UnitsPerCell converts a mouse drag in cells into displacement units.
	UnitsPerCell float64

	// KeyImpulse is the raw delta of one key press or wheel notch.
	KeyImpulse float64
}

type drag struct {
	id     int
	startX int
	moved  bool
}

// slot is where a card sits in the rendered column, in content rows.
type slot struct {
	index int
	top   int
}

// Model is the inbox card stack.
type Model struct {
	deck     Deck
	keys     *keys.KeyMap
	opts     Options
	width    int
	height   int
	originY  int
	selected int
	scroll   int
	drag     *drag
	now      func() time.Time
}

// New creates a card stack. originY is the terminal row of the first
// content line, used to map mouse events onto cards.
func New(d Deck, k *keys.KeyMap, opts Options, width, height, originY int) Model {
	return Model{
		deck:    d,
		keys:    k,
		opts:    opts,
		width:   width,
		height:  height,
		originY: originY,
		now:     time.Now,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the stack dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// SetOptions replaces the input mapping, e.g. after a config reload.
func (m *Model) SetOptions(opts Options) {
	m.opts = opts
}

// Selected returns the ID of the selected card.
func (m Model) Selected() (int, bool) {
	mails := m.deck.Mails()
	if len(mails) == 0 {
		return 0, false
	}
	i := clamp(m.selected, 0, len(mails)-1)
	return mails[i].ID, true
}

// Dragging reports whether a mouse drag is in progress.
func (m Model) Dragging() bool { return m.drag != nil }

// CancelDrag drops a mouse drag in progress, returning its card to rest.
// Call it before the stack stops receiving mouse events.
func (m *Model) CancelDrag() {
	d := m.drag
	m.drag = nil
	if d != nil && d.moved {
		m.deck.CancelDrag(d.id)
	}
}

// Update handles messages for the card stack.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.deck.Mails())

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < n-1 {
			m.selected++
		}
		m.ensureVisible()

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		m.ensureVisible()

	case key.Matches(msg, m.keys.SwipeLeft):
		if id, ok := m.Selected(); ok {
			return m, m.deck.Impulse(id, -m.opts.KeyImpulse, 0)
		}

	case key.Matches(msg, m.keys.SwipeRight):
		if id, ok := m.Selected(); ok {
			return m, m.deck.Impulse(id, m.opts.KeyImpulse, 0)
		}

	case key.Matches(msg, m.keys.Open):
		if m.drag != nil {
			return m, nil
		}
		if id, ok := m.Selected(); ok {
			return m, open(id)
		}

	case key.Matches(msg, m.keys.Write):
		if m.drag != nil {
			return m, nil
		}
		return m, compose
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.onWrite(msg.Y) {
				return m, compose
			}
			if i, id, ok := m.cardAt(msg.Y); ok {
				m.selected = i
				m.drag = &drag{id: id, startX: msg.X}
			}

		case tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
			_, id, ok := m.cardAt(msg.Y)
			if !ok {
				return m, nil
			}
			dx := m.opts.KeyImpulse
			if msg.Button == tea.MouseButtonWheelLeft {
				dx = -dx
			}
			return m, m.deck.Impulse(id, dx, 0)

		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
		}

	case tea.MouseActionMotion:
		if m.drag == nil {
			return m, nil
		}
		dx := msg.X - m.drag.startX
		if dx != 0 {
			m.drag.moved = true
		}
		if m.drag.moved {
			m.deck.Drag(m.drag.id, float64(dx)*m.opts.UnitsPerCell)
		}

	case tea.MouseActionRelease:
		d := m.drag
		m.drag = nil
		if d == nil {
			return m, nil
		}
		if d.moved {
			m.deck.Release(d.id)
			m.ensureSelection()
			return m, nil
		}
		return m, open(d.id)
	}
	return m, nil
}

func open(id int) tea.Cmd {
	return func() tea.Msg { return OpenMsg{ID: id} }
}

func compose() tea.Msg { return ComposeMsg{} }

func (m *Model) scrollBy(delta int) {
	n := len(m.deck.Mails())
	m.scroll = clamp(m.scroll+delta, 0, max(n-1, 0))
	m.selected = clamp(m.selected, m.scroll, max(n-1, 0))
}

// Refresh re-clamps the selection after the inbox changed underneath.
func (m *Model) Refresh() {
	m.ensureSelection()
}

// ensureSelection keeps the selection inside the list after a delete.
func (m *Model) ensureSelection() {
	n := len(m.deck.Mails())
	m.selected = clamp(m.selected, 0, max(n-1, 0))
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	if m.selected < m.scroll {
		m.scroll = m.selected
		return
	}
	for m.scroll < m.selected {
		visible := false
		for _, s := range m.slots() {
			if s.index == m.selected {
				visible = true
				break
			}
		}
		if visible {
			return
		}
		m.scroll++
	}
}

// slots lays out the cards that fit in the content area.
func (m Model) slots() []slot {
	n := len(m.deck.Mails())
	avail := m.height - 2 // write button and its gap

	var out []slot
	top := introLines
	for i := m.scroll; i < n; i++ {
		if top+cardHeight > avail && len(out) > 0 {
			break
		}
		out = append(out, slot{index: i, top: top})
		top += cardHeight + 1
		if i == 0 {
			top += backLines
		}
	}
	return out
}

// writeRow is the content row of the write button.
func (m Model) writeRow() int {
	s := m.slots()
	if len(s) == 0 {
		return introLines + 2
	}
	last := s[len(s)-1]
	row := last.top + cardHeight + 1
	if last.index == 0 {
		row += backLines
	}
	return row + 1
}

// cardAt maps a terminal row onto the card drawn there.
func (m Model) cardAt(y int) (int, int, bool) {
	row := y - m.originY
	mails := m.deck.Mails()
	for _, s := range m.slots() {
		if row >= s.top && row < s.top+cardHeight && s.index < len(mails) {
			return s.index, mails[s.index].ID, true
		}
	}
	return 0, 0, false
}

func (m Model) onWrite(y int) bool {
	return y-m.originY == m.writeRow()
}

// View renders the greeting, the cards and the write button.
func (m Model) View() string {
	mails := m.deck.Mails()
	frame := newCardFrame(m.width, m.opts.Max)

	var b strings.Builder
	b.WriteString(theme.GreetingStyle.Render(m.deck.Greeting(m.now()) + ", you have"))
	b.WriteString("\n")
	b.WriteString(theme.CountStyle.Render(m.deck.CountLabel()))
	b.WriteString("\n")

	sel := clamp(m.selected, 0, max(len(mails)-1, 0))
	for _, s := range m.slots() {
		mail := mails[s.index]
		b.WriteString("\n")
		b.WriteString(frame.renderCard(
			mail,
			m.deck.Visuals(mail.ID),
			m.deck.Position(mail.ID),
			s.index == sel,
		))
		if s.index == 0 {
			b.WriteString("\n")
			b.WriteString(frame.renderBacks())
		}
	}

	if len(mails) == 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("all caught up"))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Render(theme.HeaderStyle.Render("write")))

	return b.String()
}
