package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Build the UI layout
	var sections []string

	// Logo
	sections = append(sections, m.renderLogo())

	// Main content area with two columns
	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	// Help
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	// Join all sections vertically
	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderLogo renders the console logo
func (m *Model) renderLogo() string {
	logo := `
╔══════════════════════════════════════════════════════════════╗
║ ██╗  ██╗██████╗ ██╗      ██████╗ ██████╗ ███████╗             ║
║ ╚██╗██╔╝██╔══██╗██║     ██╔═══██╗██╔══██╗██╔════╝             ║
║  ╚███╔╝ ██████╔╝██║     ██║   ██║██████╔╝█████╗               ║
║  ██╔██╗ ██╔═══╝ ██║     ██║   ██║██╔══██╗██╔══╝               ║
║ ██╔╝ ██╗██║     ███████╗╚██████╔╝██║  ██║███████╗             ║
║ ╚═╝  ╚═╝╚═╝     ╚══════╝ ╚═════╝ ╚═╝  ╚═╝╚══════╝             ║
║        FIREHOSE EDITION - LIVE COLLECTION CONSOLE v1.0         ║
╚══════════════════════════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

// renderLeftColumn renders the left side of the UI
func (m *Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Stats panel
	sections = append(sections, m.renderStatsPanel(width))

	// Collection progress panel
	sections = append(sections, m.renderCollectionPanel(width))

	// Result pages panel
	sections = append(sections, m.renderPagesPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m *Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Rate limit panel
	sections = append(sections, m.renderRateLimitPanel(width))

	// Logs panel
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsPanel renders the session statistics panel
func (m *Model) renderStatsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SESSION STATS ")

	elapsed := time.Since(m.sessionStartTime)

	var rate float64
	if elapsed > 0 && m.totalTweets > 0 {
		rate = float64(m.totalTweets) / elapsed.Minutes()
	}
	var eta time.Duration
	if m.maxPages > 0 && m.completedPages > 0 && m.completedPages < m.maxPages {
		avgPageTime := elapsed / time.Duration(m.completedPages)
		eta = avgPageTime * time.Duration(m.maxPages-m.completedPages)
	}

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Tweets:"), statsValueStyle.Render(FormatCount(m.totalTweets))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Authors:"), statsValueStyle.Render(FormatCount(m.totalAuthors))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Rate:"), rateStyle.Render(FormatRate(rate))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"), statsValueStyle.Render(formatDuration(eta))),
	}

	if m.isPaused {
		stats = append(stats, warningStyle.Render("⏸  PAUSED"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderCollectionPanel renders the overall collection progress
func (m *Model) renderCollectionPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" COLLECTION ")

	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s",
		statsLabelStyle.Render("Keyword:"),
		statsValueStyle.Render(fmt.Sprintf("%q", m.keyword)),
	))

	if m.maxPages > 0 {
		pct := float64(m.completedPages) / float64(m.maxPages)
		if pct > 1.0 {
			pct = 1.0
		}
		bar := m.progressBar
		bar.Width = width - 10
		lines = append(lines,
			bar.ViewAs(pct),
			fmt.Sprintf("%s %s",
				statsLabelStyle.Render("Pages:"),
				statsValueStyle.Render(fmt.Sprintf("%d/%d", m.completedPages, m.maxPages)),
			),
		)
	} else {
		lines = append(lines, fmt.Sprintf("%s %s",
			statsLabelStyle.Render("Pages:"),
			statsValueStyle.Render(fmt.Sprintf("%d", m.completedPages)),
		))
	}

	if m.currentPage > 0 {
		if item := m.pages[m.currentPage]; item != nil && item.State == PageActive {
			lines = append(lines, fmt.Sprintf("%s %s",
				m.spinner.View(),
				pageItemActiveStyle.Render(fmt.Sprintf("Fetching page %d...", m.currentPage)),
			))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderPagesPanel renders the recently fetched pages
func (m *Model) renderPagesPanel(width int) string {
	title := titleStyle.Render(" RESULT PAGES ")

	failed := m.GetFailedPages()
	completed := m.GetCompletedPages()

	var items []string

	failedCount := len(failed)
	if failedCount > 0 {
		items = append(items, errorStyle.Render(fmt.Sprintf("✗ %d failed", failedCount)))
		for i := 0; i < 3 && i < failedCount; i++ {
			items = append(items, pageItemStyle.Render(fmt.Sprintf("✗ page %d: %v", failed[i].Page, failed[i].Error)))
		}
	}

	completedCount := len(completed)
	if completedCount > 0 {
		if len(items) > 0 {
			items = append(items, "")
		}
		items = append(items, successStyle.Render(fmt.Sprintf("✓ %d fetched", completedCount)))
		start := completedCount - 3
		if start < 0 {
			start = 0
		}
		if start > 0 {
			items = append(items, lipgloss.NewStyle().Foreground(steelGrey).Render(fmt.Sprintf("  ... %d earlier pages", start)))
		}
		for i := start; i < completedCount; i++ {
			item := completed[i]
			items = append(items, pageItemDoneStyle.Render(
				fmt.Sprintf("✓ page %d  +%d tweets  %d authors (%s)",
					item.Page, item.Tweets, item.Authors, item.Elapsed.Round(100*time.Millisecond)),
			))
		}
	}

	if len(items) == 0 {
		items = append(items, lipgloss.NewStyle().Foreground(fogGrey).Render("No pages fetched yet"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderRateLimitPanel renders the rate limit status
func (m *Model) renderRateLimitPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" RATE LIMIT STATUS ")

	usage := float64(m.rateLimitUsed) / float64(m.rateLimitMax) * 100

	// Create progress bar for rate limit
	barWidth := width - 8
	filled := int(usage * float64(barWidth) / 100)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	barStyle := GetRateLimitStyle(usage)
	bar := barStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", empty))

	resetIn := time.Until(m.rateLimitResetAt)
	if resetIn < 0 {
		resetIn = 0
	}

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Usage:"),
			barStyle.Render(fmt.Sprintf("%d/%d (%.0f%%)", m.rateLimitUsed, m.rateLimitMax, usage))),
		bar,
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Reset in:"),
			statsValueStyle.Render(formatDuration(resetIn))),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SESSION LOGS ")

	// Get recent logs
	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := logMessageStyle.Render(log.Message)

		// Truncate message if too long
		maxMsgLen := width - 25
		if len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(fogGrey).Render("No logs yet...")
	}

	// Calculate height for logs panel to fill remaining space
	logsHeight := m.height - 35 // Approximate calculation
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit the application
    p/P      - Pause/Resume collection
    ?        - Toggle this help
    ctrl+l   - Clear the log panel

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Active/Healthy
    ` + warningStyle.Render("Orange") + `   - Warning/Cooldown
    ` + errorStyle.Render("Red") + `      - Error/Critical

  Icons:
    ✓        - Fetched page
    ✗        - Failed page
    ⏸        - Paused
    █        - Progress indicator
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
