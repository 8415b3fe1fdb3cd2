package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI represents the terminal user interface
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a new TUI instance for a collection run. A maxPages of zero
// means no page ceiling is drawn.
func NewTUI(keyword string, maxPages int) *TUI {
	model := NewModel(keyword, maxPages)
	program := tea.NewProgram(&model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Start starts the TUI
func (t *TUI) Start() error {
	go func() {
		// Send initial tick to start the spinner
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// StartPage notifies the TUI that a page fetch has started
func (t *TUI) StartPage(page int, keyword string) {
	t.Send(SendPageStart(page, keyword))
}

// CompletePage notifies the TUI that a page has been fetched. Counts are
// running totals for the collection.
func (t *TUI) CompletePage(page, tweets, authors int) {
	t.Send(SendPageComplete(page, tweets, authors))
}

// FailPage notifies the TUI that a page fetch has failed
func (t *TUI) FailPage(page int, err error) {
	t.Send(SendPageError(page, err))
}

// UpdateRateLimit updates the rate limit status
func (t *TUI) UpdateRateLimit(used, max int, resetAt time.Time) {
	t.Send(SendRateLimitUpdate(used, max, resetAt))
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.Send(SendLog(level, message))
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

// LogSuccess logs a success message
func (t *TUI) LogSuccess(format string, args ...interface{}) {
	t.Log("SUCCESS", format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}

// IsPaused returns whether collection is paused
func (t *TUI) IsPaused() bool {
	t.model.mu.RLock()
	defer t.model.mu.RUnlock()
	return t.model.isPaused
}
