package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	MaxPerWindow  = 450 // Requests per 15-minute window
)

// StatusTracker keeps track of collection progress
type StatusTracker struct {
	TotalTweets    int
	Pages          int
	WindowRequests int
	StartTime      time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// RecordPage adds a fetched page to the counters
func (st *StatusTracker) RecordPage(tweets int) {
	st.Pages++
	st.TotalTweets += tweets
	st.WindowRequests++
}

// ResetWindow resets the per-window request counter
func (st *StatusTracker) ResetWindow() {
	st.WindowRequests = 0
}

// GetWindowProgress returns a formatted progress bar for the rate limit window
func (st *StatusTracker) GetWindowProgress() string {
	const width = 20
	progress := float64(st.WindowRequests) / float64(MaxPerWindow)
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.WindowRequests, MaxPerWindow)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetCollectionRate returns the average collection rate (tweets per minute)
func (st *StatusTracker) GetCollectionRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.TotalTweets) / elapsed
}

// PrintProgress prints the current progress status
func (st *StatusTracker) PrintProgress() {
	fmt.Printf("\r%s Tweets: %d | Pages: %d | Window: %s",
		Green("[COLLECTED]"),
		st.TotalTweets,
		st.Pages,
		st.GetWindowProgress())
}

// PrintWindowStatus prints the rate limit window status
func (st *StatusTracker) PrintWindowStatus() {
	fmt.Printf("\n%s %s\n", Magenta("[QUOTA]"), Yellow(st.GetWindowProgress()))
}

// IsRateLimitReached checks if the window request budget is spent
func (st *StatusTracker) IsRateLimitReached() bool {
	return st.WindowRequests >= MaxPerWindow
}

// GetTweetCount returns the total number of collected tweets
func (st *StatusTracker) GetTweetCount() int {
	return st.TotalTweets
}

// SetTweetCount sets the total tweet count (used for resuming)
func (st *StatusTracker) SetTweetCount(count int) {
	st.TotalTweets = count
}
