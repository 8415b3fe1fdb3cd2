package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/tgsn-co/XPlore/pkg/config"
	errs "github.com/tgsn-co/XPlore/pkg/errors"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/ratelimit"
	"github.com/tgsn-co/XPlore/pkg/retry"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// Result holds everything a finished search collected
type Result struct {
	// Keyword is the query the tweets were collected for
	Keyword string

	// Tweets in arrival order: page k's tweets precede page k+1's
	Tweets []twitter.Tweet

	// Authors indexes expansion users by ID. When the API repeats a user
	// across pages the latest page wins.
	Authors map[string]twitter.User

	// Pages is how many pages were fetched in this run
	Pages int

	// NextToken is the live cursor left when the page ceiling stopped the
	// run. Empty means the query was exhausted.
	NextToken string
}

// Truncated reports whether the run stopped at the page ceiling with more
// results still available
func (r *Result) Truncated() bool {
	return r.NextToken != ""
}

// Collector orchestrates paginated collection against the Twitter API
type Collector struct {
	api      APIClient
	limiter  ratelimit.Limiter
	config   *config.Config
	logger   logger.Logger
	progress Progress
}

// New creates a new Collector instance
func New(cfg *config.Config) (*Collector, error) {
	log := logger.GetLogger()

	client := twitter.NewClient(cfg.API.BearerToken, cfg.API.RequestTimeout, log)
	if cfg.API.BaseURL != "" {
		client.SetBaseURL(cfg.API.BaseURL)
	}

	// Client-side throttle across all endpoints
	var limiter ratelimit.Limiter
	if cfg.RateLimit.RequestsPerWindow > 0 {
		limiter = ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
	} else {
		limiter = ratelimit.NewSlidingWindow(450, cfg.RateLimit.Window)
	}

	return &Collector{
		api:      client,
		limiter:  limiter,
		config:   cfg,
		logger:   log,
		progress: nopProgress{},
	}, nil
}

// SetProgress attaches a progress display to the collector
func (c *Collector) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	c.progress = p
}

// retryPolicy builds the policy every API call goes through: a rate-limited
// request sleeps for the configured cooldown and is retried once, anything
// else fails immediately.
func (c *Collector) retryPolicy(ctx context.Context, endpoint string) *retry.Config {
	policy := retry.NewRateLimitPolicy(ctx, c.config.RateLimit.Cooldown, c.config.RateLimit.RetryAttempts, c.logger)
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.LogRateLimit(endpoint, delay)
		c.progress.RateLimitWait(delay)
	}
	return policy
}

// throttle blocks until the client-side limiter admits another request
func (c *Collector) throttle() {
	if c.limiter.Allow() {
		return
	}

	c.logger.WarnWithFields("Client-side rate limit reached, waiting for window", map[string]interface{}{
		"window": c.config.RateLimit.Window.String(),
	})
	c.progress.RateLimitWait(c.config.RateLimit.Window)
	c.limiter.Wait()
}

// Search collects every page of recent results for the keyword, up to the
// configured page ceiling
func (c *Collector) Search(ctx context.Context, keyword string) (*Result, error) {
	return c.SearchFrom(ctx, keyword, "")
}

// SearchFrom collects pages starting at a previously saved cursor. An empty
// cursor starts from the first page.
//
// Tweets accumulate in arrival order and the author index is merged page by
// page. Collection either finishes cleanly (query exhausted, or page ceiling
// reached with the cursor preserved in the Result) or fails as a whole: an
// error on any page discards everything collected before it.
func (c *Collector) SearchFrom(ctx context.Context, keyword, cursor string) (*Result, error) {
	if err := twitter.ValidateQuery(keyword); err != nil {
		return nil, err
	}

	c.logger.InfoWithFields("Starting search collection", map[string]interface{}{
		"keyword":   keyword,
		"max_pages": c.config.Search.MaxPages,
		"resumed":   cursor != "",
	})

	result := &Result{
		Keyword: keyword,
		Authors: make(map[string]twitter.User),
	}

	policy := c.retryPolicy(ctx, "search_recent")
	next := cursor

	for page := 0; page < c.config.Search.MaxPages; page++ {
		c.throttle()

		req := twitter.SearchRequest{
			Query:      keyword,
			MaxResults: c.config.Search.MaxResults,
			NextToken:  next,
		}

		resp, err := retry.DoWithResult(func() (*twitter.SearchResponse, error) {
			return c.api.SearchRecent(ctx, req)
		}, policy)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"keyword": keyword,
				"page":    page + 1,
			}).Error("Search collection abandoned")
			c.progress.Fail(err)
			return nil, fmt.Errorf("search %q page %d: %w", keyword, page+1, err)
		}

		result.Tweets = append(result.Tweets, resp.Data...)
		for _, user := range resp.Includes.Users {
			result.Authors[user.ID] = user
		}
		result.Pages++

		logger.LogSearchProgress(keyword, result.Pages, len(result.Tweets), len(result.Authors))
		c.progress.PageFetched(result.Pages, len(result.Tweets), len(result.Authors))

		if resp.Meta.NextToken == "" {
			c.logger.InfoWithFields("Query exhausted", map[string]interface{}{
				"keyword": keyword,
				"pages":   result.Pages,
				"tweets":  len(result.Tweets),
			})
			c.progress.Done(result.Pages, len(result.Tweets))
			return result, nil
		}
		next = resp.Meta.NextToken
	}

	// Page ceiling reached with results still available. This is a clean
	// exit; the cursor lets a later run pick up where this one stopped.
	result.NextToken = next
	c.logger.WarnWithFields("Page ceiling reached, collection truncated", map[string]interface{}{
		"keyword":    keyword,
		"pages":      result.Pages,
		"tweets":     len(result.Tweets),
		"next_token": next,
	})
	c.progress.Done(result.Pages, len(result.Tweets))
	return result, nil
}

// LookupProfiles hydrates full user profiles for the given IDs, batching the
// requests to the API's per-call limit. IDs the API cannot resolve are logged
// and skipped; any request failure abandons the whole lookup.
func (c *Collector) LookupProfiles(ctx context.Context, ids []string) ([]twitter.User, error) {
	if len(ids) == 0 {
		return nil, errs.New(errs.ErrorTypeValidation, "no user IDs to look up")
	}

	size := c.config.Search.LookupBatchSize
	if size <= 0 || size > twitter.MaxLookupBatch {
		size = twitter.MaxLookupBatch
	}

	c.logger.InfoWithFields("Starting profile lookup", map[string]interface{}{
		"ids":        len(ids),
		"batch_size": size,
	})

	policy := c.retryPolicy(ctx, "user_lookup")

	var users []twitter.User
	batch := 0
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batch++

		c.throttle()

		chunk := ids[start:end]
		resp, err := retry.DoWithResult(func() (*twitter.UserLookupResponse, error) {
			return c.api.LookupUsers(ctx, chunk)
		}, policy)
		if err != nil {
			c.logger.WithError(err).WithField("batch", batch).Error("Profile lookup abandoned")
			c.progress.Fail(err)
			return nil, fmt.Errorf("user lookup batch %d: %w", batch, err)
		}

		users = append(users, resp.Data...)
		for _, apiErr := range resp.Errors {
			c.logger.WarnWithFields("User not resolved", map[string]interface{}{
				"id":    apiErr.Value,
				"title": apiErr.Title,
			})
		}

		c.progress.LookupBatch(batch, len(users))
	}

	c.logger.InfoWithFields("Profile lookup completed", map[string]interface{}{
		"requested": len(ids),
		"resolved":  len(users),
	})
	return users, nil
}

// Counts fetches tweet volume buckets for a query through the same retry
// policy as every other call
func (c *Collector) Counts(ctx context.Context, req twitter.CountsRequest) (*twitter.CountsResponse, error) {
	c.throttle()

	policy := c.retryPolicy(ctx, "tweet_counts")
	resp, err := retry.DoWithResult(func() (*twitter.CountsResponse, error) {
		return c.api.TweetCounts(ctx, req)
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("tweet counts %q: %w", req.Query, err)
	}
	return resp, nil
}
