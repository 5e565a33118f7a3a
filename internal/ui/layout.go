package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/letterbox/internal/theme"
)

// MaxColumnWidth caps the width of the mail column on wide terminals.
const MaxColumnWidth = 64

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ColumnWidth returns the width of the centred mail column.
func (l Layout) ColumnWidth() int {
	if l.Width < MaxColumnWidth {
		return l.Width
	}
	return MaxColumnWidth
}

// ColumnLeft returns the first terminal column of the mail column.
func (l Layout) ColumnLeft() int {
	return (l.Width - l.ColumnWidth()) / 2
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar with a title on the left and a label on
// the right.
func (l Layout) RenderHeader(title string, right string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	rightRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(right)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		rightRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.
		MaxWidth(l.Width).
		Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderColumn places content in the centred mail column and pads it to the
// content height.
func (l Layout) RenderColumn(content string) string {
	return lipgloss.Place(
		l.Width, l.ContentHeight(),
		lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(l.ColumnWidth()).Render(content),
	)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
