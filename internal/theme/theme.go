package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorAmber  = lipgloss.AdaptiveColor{Dark: "#F59F00", Light: "#D97706"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorPaper  = lipgloss.AdaptiveColor{Dark: "#2B2A27", Light: "#FAFAF7"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorShadow = lipgloss.AdaptiveColor{Dark: "#212529", Light: "#A8A29E"}
)

// HeaderStyle is used for the top bar and the "inbox" title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// GreetingStyle renders the "good morning" line.
var GreetingStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// CountStyle renders the "N new mails" line.
var CountStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// CardStyle is the base of a mail card.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedCardStyle highlights the card that receives key impulses.
var SelectedCardStyle = CardStyle.
	BorderForeground(ColorBlue)

// StackBackStyle draws the layered backs behind the first card.
var StackBackStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// SenderStyle renders the card sender.
var SenderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// SubjectStyle renders the card subject.
var SubjectStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// PreviewStyle renders the card preview line.
var PreviewStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// StarStyle marks important mail.
var StarStyle = lipgloss.NewStyle().
	Foreground(ColorAmber)

// DetailPanelStyle wraps the letter and compose views.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle is used for transient error hints in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// OverlayStyle returns the badge style for a swipe overlay at the given
// opacity in [0, 1]. Terminals have no alpha, so opacity picks between
// hidden, faint and full.
func OverlayStyle(color lipgloss.TerminalColor, opacity float64) (lipgloss.Style, bool) {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch {
	case opacity <= 0:
		return base, false
	case opacity < 0.5:
		return base.Foreground(color).Faint(true), true
	default:
		return base.Foreground(ColorPaper).Background(color), true
	}
}

// ShadowStyle returns the card shadow style for a blend in [0, 1].
func ShadowStyle(blend float64) lipgloss.Style {
	if blend >= 0.5 {
		return lipgloss.NewStyle().Foreground(ColorShadow).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(ColorShadow).Faint(true)
}
