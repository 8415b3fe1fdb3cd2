package ui

import "time"

// TUI is an interface for terminal user interfaces
type TUI interface {
	StartPage(page int, keyword string)
	CompletePage(page, tweets, authors int)
	FailPage(page int, err error)
	UpdateRateLimit(used, max int, resetAt time.Time)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	IsPaused() bool
}
