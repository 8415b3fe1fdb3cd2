package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// CollectionDisplay provides a clean, minimal progress display for a
// keyword collection. It implements the collector's Progress interface.
type CollectionDisplay struct {
	mu        sync.Mutex
	keyword   string
	maxPages  int
	pages     int
	tweets    int
	authors   int
	waits     int
	startTime time.Time
	isDebug   bool
}

// NewCollectionDisplay creates a new progress display
func NewCollectionDisplay(keyword string, maxPages int, debug bool) *CollectionDisplay {
	return &CollectionDisplay{
		keyword:   keyword,
		maxPages:  maxPages,
		startTime: time.Now(),
		isDebug:   debug,
	}
}

// PageFetched records a fetched page. Counts arrive as running totals.
func (p *CollectionDisplay) PageFetched(page, tweets, authors int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pages = page
	p.tweets = tweets
	p.authors = authors

	if p.isDebug {
		fmt.Printf("\n%s Page %d: %d tweets, %d authors so far\n", Magenta("→"), page, tweets, authors)
	} else {
		p.printProgress()
	}
}

// RateLimitWait announces a cooldown before the next request
func (p *CollectionDisplay) RateLimitWait(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.waits++
	fmt.Printf("\n%s Rate limit reached. Waiting %s...\n",
		Yellow("⚠"),
		p.formatDuration(delay),
	)
}

// LookupBatch records a completed profile lookup batch
func (p *CollectionDisplay) LookupBatch(batch, users int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isDebug {
		fmt.Printf("\n%s Lookup batch %d: %d profiles resolved\n", Magenta("→"), batch, users)
	} else {
		fmt.Printf("\r%s batch %d • %d profiles", Cyan("looking up"), batch, users)
	}
}

// Done marks the collection as complete
func (p *CollectionDisplay) Done(pages, tweets int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Printf("\n\n%s Collected %d tweets for %q\n",
		Green("✓"),
		tweets,
		p.keyword,
	)

	// Summary stats
	fmt.Printf("  %s %d pages in %s (%.1f tweets/min)\n",
		Dim("•"),
		pages,
		p.formatDuration(elapsed),
		float64(tweets)/elapsed.Minutes(),
	)

	if p.waits > 0 {
		fmt.Printf("  %s %d rate limit waits\n",
			Dim("•"),
			p.waits,
		)
	}
}

// Fail reports an abandoned collection
func (p *CollectionDisplay) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Printf("\n%s Collection failed: %v\n", Red("✗"), err)
}

// printProgress prints the minimal progress line
func (p *CollectionDisplay) printProgress() {
	// Calculate stats
	elapsed := time.Since(p.startTime)
	rate := float64(p.tweets) / elapsed.Minutes()
	eta := p.calculateETA()

	// Build progress bar over the page ceiling
	progress := float64(p.pages) / float64(p.maxPages)
	barWidth := 20
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	// Format line
	line := fmt.Sprintf("\r%s [%s] page %d/%d • %d tweets • %d authors • %.1f/min • %s",
		Cyan(p.keyword),
		bar,
		p.pages,
		p.maxPages,
		p.tweets,
		p.authors,
		rate,
		eta,
	)

	// Clear line and print
	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 120), line)
}

// calculateETA estimates time remaining to the page ceiling
func (p *CollectionDisplay) calculateETA() string {
	if p.pages == 0 {
		return "calculating..."
	}

	remaining := p.maxPages - p.pages
	elapsed := time.Since(p.startTime)
	rate := float64(p.pages) / elapsed.Seconds()

	if rate == 0 {
		return "calculating..."
	}

	etaSeconds := float64(remaining) / rate
	eta := time.Duration(etaSeconds) * time.Second

	return p.formatDuration(eta)
}

// formatDuration formats a duration in a human-readable way
func (p *CollectionDisplay) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
