package tui

import (
	"errors"
	"testing"
	"time"
)

func TestModel(t *testing.T) {
	model := NewModel("climate change", 10)

	// Test starting a page
	model.StartPage(1, "climate change")
	active := model.GetActivePage()
	if active == nil || active.Page != 1 {
		t.Fatalf("Expected page 1 to be active, got %+v", active)
	}

	// Test completing a page with running totals
	model.CompletePage(1, 98, 40)
	if model.totalTweets != 98 {
		t.Errorf("Expected 98 total tweets, got %d", model.totalTweets)
	}
	if model.GetActivePage() != nil {
		t.Error("Expected no active page after completion")
	}

	// A second page records the delta, not the total
	model.StartPage(2, "")
	model.CompletePage(2, 190, 71)
	page2 := model.pages[2]
	if page2.Tweets != 92 {
		t.Errorf("Expected page 2 to add 92 tweets, got %d", page2.Tweets)
	}
	if page2.Authors != 31 {
		t.Errorf("Expected page 2 to add 31 authors, got %d", page2.Authors)
	}

	completed := model.GetCompletedPages()
	if len(completed) != 2 {
		t.Errorf("Expected 2 completed pages, got %d", len(completed))
	}

	// Test failing a page
	model.StartPage(3, "")
	model.FailPage(3, errors.New("connection reset"))
	failed := model.GetFailedPages()
	if len(failed) != 1 {
		t.Errorf("Expected 1 failed page, got %d", len(failed))
	}
	if model.GetActivePage() != nil {
		t.Error("Expected no active page after failure")
	}
	if model.completedPages != 2 {
		t.Errorf("Expected completed page count to stay at 2, got %d", model.completedPages)
	}

	// Test rate limit update
	resetTime := time.Now().Add(15 * time.Minute)
	model.UpdateRateLimit(50, 450, resetTime)
	if model.rateLimitUsed != 50 {
		t.Errorf("Expected rate limit used to be 50, got %d", model.rateLimitUsed)
	}

	// Test log messages
	model.AddLogMessage("INFO", "Test message")
	if len(model.logMessages) != 1 {
		t.Errorf("Expected 1 log message, got %d", len(model.logMessages))
	}
}

func TestModelCompletePageWithoutStart(t *testing.T) {
	model := NewModel("golang", 0)

	// A completion for a page that was never announced still lands
	model.CompletePage(1, 100, 37)

	completed := model.GetCompletedPages()
	if len(completed) != 1 {
		t.Fatalf("Expected 1 completed page, got %d", len(completed))
	}
	if completed[0].Tweets != 100 {
		t.Errorf("Expected 100 tweets on page 1, got %d", completed[0].Tweets)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "0"},
		{500, "500"},
		{1000, "1.0k"},
		{1500, "1.5k"},
		{250000, "250.0k"},
		{1200000, "1.2M"},
	}

	for _, test := range tests {
		result := FormatCount(test.count)
		if result != test.expected {
			t.Errorf("FormatCount(%d) = %s, expected %s", test.count, result, test.expected)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate     float64
		expected string
	}{
		{0, "0.0 tweets/min"},
		{87.5, "87.5 tweets/min"},
		{120.0, "120.0 tweets/min"},
	}

	for _, test := range tests {
		result := FormatRate(test.rate)
		if result != test.expected {
			t.Errorf("FormatRate(%f) = %s, expected %s", test.rate, result, test.expected)
		}
	}
}
