package cardstack

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhle/letterbox/internal/gesture"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/theme"
)

const (
	// cardHeight is the rendered height of one card including its border.
	cardHeight = 5

	// backLines is the number of stacked backs drawn under the first card.
	backLines = 2

	maxMargin = 14

	// degPerSkew is the rotation that shifts the top and bottom border by
	// one cell in opposite directions.
	degPerSkew = 3.0
)

// cardFrame holds the geometry shared by every card of one render.
type cardFrame struct {
	width  int // column width
	margin int // free cells on each side of a card at rest
	max    float64
}

func newCardFrame(width int, bound float64) cardFrame {
	margin := width / 5
	if margin > maxMargin {
		margin = maxMargin
	}
	if bound <= 0 {
		bound = gesture.DefaultMax
	}
	return cardFrame{width: width, margin: margin, max: bound}
}

func (f cardFrame) cardWidth() int {
	w := f.width - 2*f.margin
	if w < 8 {
		w = 8
	}
	return w
}

// shift maps a position onto a horizontal displacement in cells. The card
// never leaves the column.
func (f cardFrame) shift(position float64) int {
	return int(math.Round(position / f.max * float64(f.margin)))
}

// renderCard draws one card with its swipe visuals applied. The returned
// block is exactly f.width cells wide and cardHeight+1 lines high; the last
// line is the shadow.
func (f cardFrame) renderCard(m model.Mail, v gesture.Visuals, position float64, selected bool) string {
	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	inner := f.cardWidth() - style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	head := theme.SenderStyle.Render(m.Sender)
	if m.Important {
		head += " " + theme.StarStyle.Render("★")
	}
	stamp := theme.SubjectStyle.Render("✉ " + m.Timestamp)
	gap := inner - lipgloss.Width(head) - lipgloss.Width(stamp)
	if gap < 1 {
		head = theme.SenderStyle.Render(fit(m.Sender, inner-lipgloss.Width(stamp)-1))
		gap = inner - lipgloss.Width(head) - lipgloss.Width(stamp)
		if gap < 0 {
			gap = 0
		}
	}

	body := strings.Join([]string{
		head + strings.Repeat(" ", gap) + stamp,
		theme.SubjectStyle.Render(fit(m.Subject, inner)),
		theme.PreviewStyle.Render(fit(m.Preview, inner)),
	}, "\n")

	card := strings.Split(style.Width(f.cardWidth()-style.GetHorizontalBorderSize()).Render(body), "\n")

	indent := f.margin + f.shift(position)
	skew := int(math.Round(v.RotationDeg / degPerSkew))

	var lines []string
	for i, line := range card {
		at := indent
		switch i {
		case 0:
			at += skew
		case len(card) - 1:
			at -= skew
		}
		at = clamp(at, 0, f.width-lipgloss.Width(line))

		left, right := "", ""
		if i == len(card)/2 {
			left, right = f.badges(v, at, f.width-at-lipgloss.Width(line))
		}
		lines = append(lines, pad(left, at)+line+pad(right, f.width-at-lipgloss.Width(line)))
	}

	shadow := theme.ShadowStyle(v.ShadowBlend).Render(strings.Repeat("▔", f.cardWidth()))
	lines = append(lines, pad("", clamp(indent, 0, f.width-f.cardWidth()))+shadow)

	return strings.Join(lines, "\n")
}

// badges returns the overlay labels for the space the card has vacated:
// moving left uncovers "delete" on the right, moving right uncovers
// "important" on the left.
func (f cardFrame) badges(v gesture.Visuals, leftRoom, rightRoom int) (string, string) {
	var left, right string
	if s, ok := theme.OverlayStyle(theme.ColorAmber, v.RightOverlay); ok {
		label := s.Render("★ important")
		if lipgloss.Width(label)+1 <= leftRoom {
			left = strings.Repeat(" ", leftRoom-lipgloss.Width(label)-1) + label
		}
	}
	if s, ok := theme.OverlayStyle(theme.ColorRed, v.LeftOverlay); ok {
		label := s.Render("✕ delete")
		if lipgloss.Width(label)+1 <= rightRoom {
			right = " " + label
		}
	}
	return left, right
}

// renderBacks draws the layered backs that give the first card its stack
// look.
func (f cardFrame) renderBacks() string {
	var lines []string
	for i := 1; i <= backLines; i++ {
		w := f.cardWidth() - 2*i*2
		if w < 2 {
			lines = append(lines, "")
			continue
		}
		line := "╰" + strings.Repeat("─", w-2) + "╯"
		lines = append(lines, pad("", f.margin+2*i)+theme.StackBackStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

// fit truncates s to w cells with an ellipsis.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

// pad right-fills s with spaces to w cells.
func pad(s string, w int) string {
	n := w - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
