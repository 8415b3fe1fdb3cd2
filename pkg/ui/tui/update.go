package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// PageStartMsg is sent when a page fetch starts
type PageStartMsg struct {
	Page    int
	Keyword string
}

// PageCompleteMsg is sent when a page has been fetched. Counts are running
// totals for the collection, not per-page deltas.
type PageCompleteMsg struct {
	Page    int
	Tweets  int
	Authors int
}

// PageErrorMsg is sent when a page fetch fails
type PageErrorMsg struct {
	Page  int
	Error error
}

// RateLimitUpdateMsg is sent to update rate limit status
type RateLimitUpdateMsg struct {
	Used    int
	Max     int
	ResetAt time.Time
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// WindowSizeMsg is sent when the terminal is resized
type WindowSizeMsg struct {
	Width  int
	Height int
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// Regular UI update tick
		return m, tea.Batch(
			tickCmd(),
			m.spinner.Tick,
		)

	case PageStartMsg:
		m.StartPage(msg.Page, msg.Keyword)
		m.AddLogMessage("INFO", fmt.Sprintf("Fetching page %d", msg.Page))
		return m, nil

	case PageCompleteMsg:
		m.CompletePage(msg.Page, msg.Tweets, msg.Authors)
		if item, ok := m.pages[msg.Page]; ok {
			m.AddLogMessage("SUCCESS", fmt.Sprintf("Page %d: +%d tweets, %d authors", msg.Page, item.Tweets, item.Authors))
		}
		return m, nil

	case PageErrorMsg:
		m.FailPage(msg.Page, msg.Error)
		m.AddLogMessage("ERROR", fmt.Sprintf("Page %d failed: %v", msg.Page, msg.Error))
		return m, nil

	case RateLimitUpdateMsg:
		m.UpdateRateLimit(msg.Used, msg.Max, msg.ResetAt)
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil

	case WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "P":
		m.isPaused = !m.isPaused
		if m.isPaused {
			m.AddLogMessage("WARN", "Collection paused by user")
		} else {
			m.AddLogMessage("INFO", "Collection resumed by user")
		}
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		// Clear logs
		m.mu.Lock()
		m.logMessages = []LogMessage{}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// Commands

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Helper functions for external use

// SendPageStart creates a message marking a page fetch as started
func SendPageStart(page int, keyword string) tea.Msg {
	return PageStartMsg{
		Page:    page,
		Keyword: keyword,
	}
}

// SendPageComplete creates a message marking a page as fetched
func SendPageComplete(page, tweets, authors int) tea.Msg {
	return PageCompleteMsg{
		Page:    page,
		Tweets:  tweets,
		Authors: authors,
	}
}

// SendPageError creates a message marking a page fetch as failed
func SendPageError(page int, err error) tea.Msg {
	return PageErrorMsg{Page: page, Error: err}
}

// SendRateLimitUpdate creates a message to update rate limit
func SendRateLimitUpdate(used, max int, resetAt time.Time) tea.Msg {
	return RateLimitUpdateMsg{
		Used:    used,
		Max:     max,
		ResetAt: resetAt,
	}
}

// SendLog creates a log message
func SendLog(level, message string) tea.Msg {
	return LogMsg{Level: level, Message: message}
}
