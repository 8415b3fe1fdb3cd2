package collector

import (
	"context"
	"time"

	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// APIClient defines the interface for Twitter API operations
type APIClient interface {
	SearchRecent(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error)
	LookupUsers(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error)
	TweetCounts(ctx context.Context, req twitter.CountsRequest) (*twitter.CountsResponse, error)
}

// Progress receives collection lifecycle events. The plain terminal display
// and the TUI both implement it.
type Progress interface {
	// PageFetched is called after each search page with running totals
	PageFetched(page, tweets, authors int)
	// RateLimitWait is called before the collector sleeps on a rate limit
	RateLimitWait(delay time.Duration)
	// LookupBatch is called after each bulk lookup batch with the running user total
	LookupBatch(batch, users int)
	// Done is called once when a collection finishes cleanly
	Done(pages, tweets int)
	// Fail is called once when a collection is abandoned
	Fail(err error)
}

// nopProgress is used when no display is attached
type nopProgress struct{}

func (nopProgress) PageFetched(page, tweets, authors int) {}
func (nopProgress) RateLimitWait(delay time.Duration)     {}
func (nopProgress) LookupBatch(batch, users int)          {}
func (nopProgress) Done(pages, tweets int)                {}
func (nopProgress) Fail(err error)                        {}
