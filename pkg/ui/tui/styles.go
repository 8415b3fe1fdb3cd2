package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Console palette, matched to the chart export colors
	accentCyan   = lipgloss.Color("#00E5FF")
	accentViolet = lipgloss.Color("#B388FF")
	accentGreen  = lipgloss.Color("#39FF14")
	amber        = lipgloss.Color("#FFCC00")
	ember        = lipgloss.Color("#FF6D00")
	alertRed     = lipgloss.Color("#FF1744")
	charcoal     = lipgloss.Color("#191A19")
	charcoal2    = lipgloss.Color("#242524")
	fogGrey      = lipgloss.Color("#CCCCCC")
	steelGrey    = lipgloss.Color("#737373")
	brightWhite  = lipgloss.Color("#FFFFFF")

	// Base styles
	baseStyle = lipgloss.NewStyle().
			Background(charcoal).
			Foreground(fogGrey)

	// Logo style
	logoStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentViolet).
			Background(charcoal2).
			Padding(1, 2)

	// Progress bar styles
	progressBarStyle = lipgloss.NewStyle().
				Foreground(accentGreen).
				Background(charcoal)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3A3B3A"))

	// Stats styles
	statsLabelStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(amber)

	// Status styles
	successStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(alertRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(ember).
			Bold(true)

	// Page list styles
	pageItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pageItemActiveStyle = lipgloss.NewStyle().
				Foreground(accentGreen).
				Bold(true).
				PaddingLeft(2)

	pageItemDoneStyle = lipgloss.NewStyle().
				Foreground(fogGrey).
				Faint(true).
				PaddingLeft(2)

	// Log styles
	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	logMessageStyle = lipgloss.NewStyle().
			Foreground(fogGrey)

	// Help style
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)

	// Title styles for panels
	titleStyle = lipgloss.NewStyle().
			Background(amber).
			Foreground(charcoal).
			Bold(true).
			Padding(0, 1)

	// Rate limit styles
	rateLimitNormalStyle = lipgloss.NewStyle().
				Foreground(accentGreen)

	rateLimitWarningStyle = lipgloss.NewStyle().
				Foreground(ember)

	rateLimitCriticalStyle = lipgloss.NewStyle().
				Foreground(alertRed)

	// Collection rate style
	rateStyle = lipgloss.NewStyle().
			Foreground(accentCyan)
)

// GetProgressBarStyle returns the appropriate style based on progress percentage
func GetProgressBarStyle(percentage float64) lipgloss.Style {
	switch {
	case percentage >= 80:
		return progressBarStyle.Foreground(accentGreen)
	case percentage >= 50:
		return progressBarStyle.Foreground(amber)
	case percentage >= 30:
		return progressBarStyle.Foreground(ember)
	default:
		return progressBarStyle.Foreground(accentViolet)
	}
}

// GetRateLimitStyle returns the appropriate style based on rate limit usage
func GetRateLimitStyle(usage float64) lipgloss.Style {
	switch {
	case usage >= 90:
		return rateLimitCriticalStyle
	case usage >= 70:
		return rateLimitWarningStyle
	default:
		return rateLimitNormalStyle
	}
}

// GlowText creates a glowing text effect using ANSI escape codes
func GlowText(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
}
