package envelope

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/theme"
	"github.com/nhle/letterbox/internal/transition"
)

const (
	// flapRows is the depth of the flap and the room above the envelope.
	flapRows = 4
	bodyRows = 6
	maxWidth = 40
	minWidth = 16
)

// Model renders the envelope animation between the list and a letter.
type Model struct {
	width  int
	height int
}

// New creates an envelope view.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View draws the envelope for phase at progress in [0, 1]. The first half of
// opening lifts the flap, the second slides the letter out; closing runs the
// same frames backwards.
func (m Model) View(phase transition.Phase, progress float64, mail *model.Mail) string {
	o := openness(phase, progress)
	ew := m.envelopeWidth()

	flapUp, depth := flap(o)
	lift := int(math.Round(math.Max(0, o-0.5) * 2 * flapRows))

	sender := ""
	if mail != nil {
		sender = mail.Sender
	}

	var lines []string
	for r := 0; r < flapRows; r++ {
		k := flapRows - r // distance above the top edge
		switch {
		case k <= lift:
			lines = append(lines, theme.SenderStyle.Render(letterRow(ew, lift-k, sender)))
		case flapUp && k <= depth:
			lines = append(lines, flapRow(ew, k, depth, '/', '\\', '^'))
		default:
			lines = append(lines, strings.Repeat(" ", ew))
		}
	}

	edge := lipgloss.NewStyle().Foreground(theme.ColorAmber)
	lines = append(lines, edge.Render("┌"+strings.Repeat("─", ew-2)+"┐"))
	for k := 1; k <= bodyRows; k++ {
		if !flapUp && k <= depth {
			row := []rune(flapRow(ew, k, depth, '\\', '/', 'v'))
			row[0], row[ew-1] = '│', '│'
			lines = append(lines, edge.Render(string(row)))
			continue
		}
		lines = append(lines, edge.Render("│"+strings.Repeat(" ", ew-2)+"│"))
	}
	lines = append(lines, edge.Render("└"+strings.Repeat("─", ew-2)+"┘"))

	caption := "sealing"
	if phase == transition.PhaseOpen {
		caption = "opening"
	}
	if sender != "" {
		caption += " · " + sender
	}
	lines = append(lines, "", theme.SubjectStyle.Render(caption))

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
	)
}

func (m Model) envelopeWidth() int {
	w := m.width - 4
	if w > maxWidth {
		w = maxWidth
	}
	if w < minWidth {
		w = minWidth
	}
	return w
}

// openness maps a phase and its progress onto how far open the envelope is.
func openness(phase transition.Phase, progress float64) float64 {
	p := math.Min(1, math.Max(0, progress))
	if phase == transition.PhaseClose {
		return 1 - p
	}
	return p
}

// flap returns the flap orientation and depth in rows for openness o. The
// flap folds through flat at o = 0.5.
func flap(o float64) (up bool, depth int) {
	if o < 0.5 {
		return false, int(math.Round((1 - 2*o) * flapRows))
	}
	return true, int(math.Round((2*o - 1) * flapRows))
}

// flapRow draws row k of a flap that is depth rows deep across width ew.
func flapRow(ew, k, depth int, left, right, apex rune) string {
	row := []rune(strings.Repeat(" ", ew))
	half := (ew - 2) / 2
	inset := int(math.Round(float64(k) * float64(half) / float64(depth)))
	l, r := inset, ew-1-inset
	if l >= r {
		row[ew/2] = apex
		return string(row)
	}
	row[l], row[r] = left, right
	return string(row)
}

// letterRow draws row i, counted from the top, of the letter rising out of
// an envelope ew wide.
func letterRow(ew, i int, sender string) string {
	lw := ew - 6
	inner := lw - 2
	var s string
	switch i {
	case 0:
		s = "╭" + strings.Repeat("─", inner) + "╮"
	case 1:
		name := runewidth.Truncate(sender, inner-2, "…")
		s = "│ " + runewidth.FillRight(name, inner-2) + " │"
	default:
		s = "│" + strings.Repeat(" ", inner) + "│"
	}
	return "   " + s + "   "
}
