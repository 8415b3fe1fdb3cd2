package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PageState represents the state of a result page
type PageState int

const (
	PageActive PageState = iota
	PageCompleted
	PageFailed
)

// PageItem represents a single fetched result page
type PageItem struct {
	Page      int
	Keyword   string
	Tweets    int
	Authors   int
	State     PageState
	StartTime time.Time
	Elapsed   time.Duration
	Error     error
}

// Model represents the TUI model
type Model struct {
	// UI components
	spinner     spinner.Model
	progressBar progress.Model

	// Collection state
	keyword     string
	maxPages    int
	pages       map[int]*PageItem
	pageOrder   []int
	currentPage int

	// Stats
	totalTweets      int
	totalAuthors     int
	completedPages   int
	sessionStartTime time.Time

	// Rate limiting
	rateLimitMax     int
	rateLimitUsed    int
	rateLimitResetAt time.Time

	// UI state
	width          int
	height         int
	showHelp       bool
	isPaused       bool
	logMessages    []LogMessage
	maxLogMessages int

	// Mutex for thread safety
	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new TUI model
func NewModel(keyword string, maxPages int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amber)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:          s,
		progressBar:      p,
		keyword:          keyword,
		maxPages:         maxPages,
		pages:            make(map[int]*PageItem),
		pageOrder:        []int{},
		sessionStartTime: time.Now(),
		logMessages:      []LogMessage{},
		maxLogMessages:   50,
		rateLimitMax:     450, // Requests per 15-minute search window
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// StartPage records that a page fetch is in flight
func (m *Model) StartPage(page int, keyword string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if keyword != "" {
		m.keyword = keyword
	}
	if _, ok := m.pages[page]; !ok {
		m.pageOrder = append(m.pageOrder, page)
	}
	m.pages[page] = &PageItem{
		Page:      page,
		Keyword:   m.keyword,
		State:     PageActive,
		StartTime: time.Now(),
	}
	m.currentPage = page
}

// CompletePage marks a page as fetched. Tweet and author counts arrive as
// running totals for the whole collection; the per-page delta is derived here.
func (m *Model) CompletePage(page, tweets, authors int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.pages[page]
	if !ok {
		item = &PageItem{Page: page, Keyword: m.keyword, StartTime: time.Now()}
		m.pages[page] = item
		m.pageOrder = append(m.pageOrder, page)
	}
	item.State = PageCompleted
	item.Tweets = tweets - m.totalTweets
	item.Authors = authors - m.totalAuthors
	item.Elapsed = time.Since(item.StartTime)

	m.totalTweets = tweets
	m.totalAuthors = authors
	m.completedPages++
	if m.currentPage == page {
		m.currentPage = 0
	}
}

// FailPage marks a page fetch as failed
func (m *Model) FailPage(page int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.pages[page]
	if !ok {
		item = &PageItem{Page: page, Keyword: m.keyword, StartTime: time.Now()}
		m.pages[page] = item
		m.pageOrder = append(m.pageOrder, page)
	}
	item.State = PageFailed
	item.Error = err
	item.Elapsed = time.Since(item.StartTime)
	if m.currentPage == page {
		m.currentPage = 0
	}
}

// UpdateRateLimit updates the rate limit status
func (m *Model) UpdateRateLimit(used, max int, resetAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rateLimitUsed = used
	m.rateLimitMax = max
	m.rateLimitResetAt = resetAt
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := fogGrey
	switch level {
	case "ERROR":
		color = alertRed
	case "WARN":
		color = ember
	case "SUCCESS":
		color = accentGreen
	case "INFO":
		color = accentCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// GetActivePage returns the page currently being fetched, or nil
func (m *Model) GetActivePage() *PageItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.currentPage == 0 {
		return nil
	}
	if item := m.pages[m.currentPage]; item != nil && item.State == PageActive {
		return item
	}
	return nil
}

// GetCompletedPages returns fetched pages in fetch order
func (m *Model) GetCompletedPages() []*PageItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var completed []*PageItem
	for _, page := range m.pageOrder {
		if item := m.pages[page]; item != nil && item.State == PageCompleted {
			completed = append(completed, item)
		}
	}
	return completed
}

// GetFailedPages returns pages whose fetch failed
func (m *Model) GetFailedPages() []*PageItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var failed []*PageItem
	for _, page := range m.pageOrder {
		if item := m.pages[page]; item != nil && item.State == PageFailed {
			failed = append(failed, item)
		}
	}
	return failed
}

// GetCollectionStats returns the tweets-per-minute rate and an ETA for the
// remaining pages. The ETA is zero when no page ceiling is set.
func (m *Model) GetCollectionStats() (rate float64, eta time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elapsed := time.Since(m.sessionStartTime)
	if elapsed > 0 && m.totalTweets > 0 {
		rate = float64(m.totalTweets) / elapsed.Minutes()
	}

	if m.maxPages > 0 && m.completedPages > 0 && m.completedPages < m.maxPages {
		avgPageTime := elapsed / time.Duration(m.completedPages)
		eta = avgPageTime * time.Duration(m.maxPages-m.completedPages)
	}

	return
}

// FormatCount formats a count to a compact human readable form
func FormatCount(n int) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	case n >= 1000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatRate formats a tweets-per-minute collection rate
func FormatRate(perMinute float64) string {
	return fmt.Sprintf("%.1f tweets/min", perMinute)
}
