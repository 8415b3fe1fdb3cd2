package collector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgsn-co/XPlore/pkg/config"
	errs "github.com/tgsn-co/XPlore/pkg/errors"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// mockAPIClient is a mock implementation of the APIClient interface
type mockAPIClient struct {
	searchRecent func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error)
	lookupUsers  func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error)
	tweetCounts  func(ctx context.Context, req twitter.CountsRequest) (*twitter.CountsResponse, error)
}

func (m *mockAPIClient) SearchRecent(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
	if m.searchRecent != nil {
		return m.searchRecent(ctx, req)
	}
	return &twitter.SearchResponse{}, nil
}

func (m *mockAPIClient) LookupUsers(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
	if m.lookupUsers != nil {
		return m.lookupUsers(ctx, ids)
	}
	return &twitter.UserLookupResponse{}, nil
}

func (m *mockAPIClient) TweetCounts(ctx context.Context, req twitter.CountsRequest) (*twitter.CountsResponse, error) {
	if m.tweetCounts != nil {
		return m.tweetCounts(ctx, req)
	}
	return &twitter.CountsResponse{}, nil
}

// recordingProgress captures progress events for assertions
type recordingProgress struct {
	pages   []int
	waits   []time.Duration
	batches []int
	done    bool
	failed  error
}

func (r *recordingProgress) PageFetched(page, tweets, authors int) { r.pages = append(r.pages, page) }
func (r *recordingProgress) RateLimitWait(delay time.Duration)     { r.waits = append(r.waits, delay) }
func (r *recordingProgress) LookupBatch(batch, users int)          { r.batches = append(r.batches, batch) }
func (r *recordingProgress) Done(pages, tweets int)                { r.done = true }
func (r *recordingProgress) Fail(err error)                        { r.failed = err }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.RateLimit.Cooldown = 30 * time.Millisecond
	cfg.RateLimit.RequestsPerWindow = 100000
	return cfg
}

func newTestCollector(t *testing.T, cfg *config.Config, api APIClient) *Collector {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	c.api = api
	c.logger = logger.NewNopLogger()
	return c
}

// searchPage builds a page with count tweets and one author per tweet
func searchPage(page, count int, nextToken string) *twitter.SearchResponse {
	resp := &twitter.SearchResponse{
		Meta: twitter.SearchMeta{ResultCount: count, NextToken: nextToken},
	}
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("p%d-%d", page, i)
		resp.Data = append(resp.Data, twitter.Tweet{
			ID:        id,
			AuthorID:  "u-" + id,
			Text:      "tweet " + id,
			CreatedAt: "2023-02-01T10:00:00.000Z",
		})
		resp.Includes.Users = append(resp.Includes.Users, twitter.User{
			ID:       "u-" + id,
			Username: "user_" + id,
		})
	}
	return resp
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	c, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, c.api)
	assert.NotNil(t, c.limiter)
	assert.NotNil(t, c.progress)
	assert.Equal(t, cfg, c.config)
}

func TestSearchAccumulatesAcrossPages(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			switch calls {
			case 1:
				return searchPage(1, 2, "tok-1"), nil
			case 2:
				return searchPage(2, 2, "tok-2"), nil
			default:
				return searchPage(3, 1, ""), nil
			}
		},
	}

	c := newTestCollector(t, testConfig(), api)
	result, err := c.Search(context.Background(), "climate")
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, result.Pages)
	assert.Empty(t, result.NextToken)
	assert.False(t, result.Truncated())

	// Page order is preserved in the accumulated slice
	var ids []string
	for _, tw := range result.Tweets {
		ids = append(ids, tw.ID)
	}
	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0", "p2-1", "p3-0"}, ids)
	assert.Len(t, result.Authors, 5)
	assert.Equal(t, "user_p2-1", result.Authors["u-p2-1"].Username)
}

func TestSearchFollowsCursorChain(t *testing.T) {
	var cursors []string
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			cursors = append(cursors, req.NextToken)
			if calls < 3 {
				return searchPage(calls, 1, fmt.Sprintf("tok-%d", calls)), nil
			}
			return searchPage(calls, 1, ""), nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	_, err := c.Search(context.Background(), "climate")
	require.NoError(t, err)

	// First request has no cursor, each later one carries the previous token
	assert.Equal(t, []string{"", "tok-1", "tok-2"}, cursors)
}

func TestSearchAuthorIndexLastPageWins(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			if calls == 1 {
				resp := searchPage(1, 1, "tok-1")
				resp.Includes.Users = []twitter.User{{ID: "100", Username: "alice", Location: "Oslo"}}
				return resp, nil
			}
			resp := searchPage(2, 1, "")
			resp.Includes.Users = []twitter.User{{ID: "100", Username: "alice", Location: "Bergen"}}
			return resp, nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	result, err := c.Search(context.Background(), "climate")
	require.NoError(t, err)

	require.Len(t, result.Authors, 1)
	assert.Equal(t, "Bergen", result.Authors["100"].Location)
}

func TestSearchStopsAtPageCeiling(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			return searchPage(calls, 2, fmt.Sprintf("tok-%d", calls)), nil
		},
	}

	cfg := testConfig()
	cfg.Search.MaxPages = 3
	c := newTestCollector(t, cfg, api)

	result, err := c.Search(context.Background(), "climate")
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, result.Pages)
	assert.Len(t, result.Tweets, 6)
	assert.Equal(t, "tok-3", result.NextToken)
	assert.True(t, result.Truncated())
}

func TestSearchFromResumesCursor(t *testing.T) {
	var first string
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			if first == "" {
				first = req.NextToken
			}
			return searchPage(1, 1, ""), nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	_, err := c.SearchFrom(context.Background(), "climate", "cur-42")
	require.NoError(t, err)
	assert.Equal(t, "cur-42", first)
}

func TestSearchRetriesRateLimitOnce(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			if calls == 1 {
				return nil, errs.FromStatusCode(429, `{"title":"Too Many Requests"}`)
			}
			return searchPage(1, 1, ""), nil
		},
	}

	c := newTestCollector(t, testConfig(), api)

	start := time.Now()
	result, err := c.Search(context.Background(), "climate")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, result.Tweets, 1)
	// The retry only fires after the full cooldown has passed
	assert.GreaterOrEqual(t, elapsed, 25*time.Millisecond)
}

func TestSearchSecondRateLimitFails(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			return nil, errs.FromStatusCode(429, `{"title":"Too Many Requests"}`)
		},
	}

	c := newTestCollector(t, testConfig(), api)
	result, err := c.Search(context.Background(), "climate")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 2, calls, "a rate-limited request is retried exactly once")
	assert.True(t, errs.IsRateLimit(err))
	assert.Contains(t, err.Error(), "429")
}

func TestSearchFailsFastOnOtherErrors(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 500, 503} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			calls := 0
			api := &mockAPIClient{
				searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
					calls++
					return nil, errs.FromStatusCode(status, "error body")
				},
			}

			c := newTestCollector(t, testConfig(), api)
			result, err := c.Search(context.Background(), "climate")

			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, 1, calls, "non rate-limit failures are not retried")
			assert.Contains(t, err.Error(), fmt.Sprintf("%d", status))
			assert.Contains(t, err.Error(), "error body")
		})
	}
}

func TestSearchDiscardsPartialPages(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			if calls == 1 {
				return searchPage(1, 2, "tok-1"), nil
			}
			return nil, errs.FromStatusCode(500, "upstream broke")
		},
	}

	c := newTestCollector(t, testConfig(), api)
	result, err := c.Search(context.Background(), "climate")

	require.Error(t, err)
	assert.Nil(t, result, "a mid-run failure must not leak the pages fetched before it")
	assert.Equal(t, 2, calls)
}

func TestSearchValidatesKeyword(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			return searchPage(1, 1, ""), nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	_, err := c.Search(context.Background(), "  ")

	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeValidation, errs.TypeOf(err))
	assert.Zero(t, calls)
}

func TestSearchCooldownHonorsContext(t *testing.T) {
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			return nil, errs.FromStatusCode(429, "slow down")
		},
	}

	cfg := testConfig()
	cfg.RateLimit.Cooldown = 5 * time.Second
	c := newTestCollector(t, cfg, api)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.SearchFrom(ctx, "climate", "")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second, "cancellation must interrupt the cooldown sleep")
}

func TestSearchProgressEvents(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			calls++
			if calls == 1 {
				return searchPage(1, 2, "tok-1"), nil
			}
			return searchPage(2, 2, ""), nil
		},
	}

	progress := &recordingProgress{}
	c := newTestCollector(t, testConfig(), api)
	c.SetProgress(progress)

	_, err := c.Search(context.Background(), "climate")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, progress.pages)
	assert.True(t, progress.done)
	assert.Nil(t, progress.failed)
}

func TestSearchProgressFailEvent(t *testing.T) {
	api := &mockAPIClient{
		searchRecent: func(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
			return nil, errs.FromStatusCode(500, "boom")
		},
	}

	progress := &recordingProgress{}
	c := newTestCollector(t, testConfig(), api)
	c.SetProgress(progress)

	_, err := c.Search(context.Background(), "climate")
	require.Error(t, err)
	assert.False(t, progress.done)
	assert.Error(t, progress.failed)
}

func TestLookupProfilesBatches(t *testing.T) {
	var batchSizes []int
	api := &mockAPIClient{
		lookupUsers: func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
			batchSizes = append(batchSizes, len(ids))
			resp := &twitter.UserLookupResponse{}
			for _, id := range ids {
				resp.Data = append(resp.Data, twitter.User{ID: id, Username: "user_" + id})
			}
			return resp, nil
		},
	}

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	progress := &recordingProgress{}
	c := newTestCollector(t, testConfig(), api)
	c.SetProgress(progress)

	users, err := c.LookupProfiles(context.Background(), ids)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 100, 50}, batchSizes)
	require.Len(t, users, 250)
	assert.Equal(t, "0", users[0].ID)
	assert.Equal(t, "249", users[249].ID)
	assert.Equal(t, []int{1, 2, 3}, progress.batches)
}

func TestLookupProfilesHonorsConfiguredBatchSize(t *testing.T) {
	var batchSizes []int
	api := &mockAPIClient{
		lookupUsers: func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
			batchSizes = append(batchSizes, len(ids))
			return &twitter.UserLookupResponse{}, nil
		},
	}

	cfg := testConfig()
	cfg.Search.LookupBatchSize = 75
	c := newTestCollector(t, cfg, api)

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	_, err := c.LookupProfiles(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []int{75, 75, 75, 25}, batchSizes)
}

func TestLookupProfilesRetriesRateLimit(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		lookupUsers: func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
			calls++
			if calls == 2 {
				return nil, errs.FromStatusCode(429, "limit hit")
			}
			return &twitter.UserLookupResponse{Data: []twitter.User{{ID: ids[0]}}}, nil
		},
	}

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	c := newTestCollector(t, testConfig(), api)
	users, err := c.LookupProfiles(context.Background(), ids)
	require.NoError(t, err)

	// Two batches plus one retried attempt
	assert.Equal(t, 3, calls)
	assert.Len(t, users, 2)
}

func TestLookupProfilesFailsFast(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		lookupUsers: func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
			calls++
			if calls == 2 {
				return nil, errs.FromStatusCode(403, "forbidden")
			}
			return &twitter.UserLookupResponse{Data: []twitter.User{{ID: ids[0]}}}, nil
		},
	}

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	c := newTestCollector(t, testConfig(), api)
	users, err := c.LookupProfiles(context.Background(), ids)

	require.Error(t, err)
	assert.Nil(t, users)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestLookupProfilesRejectsEmptyInput(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		lookupUsers: func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
			calls++
			return &twitter.UserLookupResponse{}, nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	_, err := c.LookupProfiles(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeValidation, errs.TypeOf(err))
	assert.Zero(t, calls)
}

func TestLookupProfilesSkipsUnresolvedIDs(t *testing.T) {
	api := &mockAPIClient{
		lookupUsers: func(ctx context.Context, ids []string) (*twitter.UserLookupResponse, error) {
			return &twitter.UserLookupResponse{
				Data: []twitter.User{{ID: "100", Username: "alice"}},
				Errors: []twitter.APIError{
					{Title: "Not Found Error", Value: "999", ResourceType: "user"},
				},
			}, nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	users, err := c.LookupProfiles(context.Background(), []string{"100", "999"})

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestCounts(t *testing.T) {
	var captured twitter.CountsRequest
	api := &mockAPIClient{
		tweetCounts: func(ctx context.Context, req twitter.CountsRequest) (*twitter.CountsResponse, error) {
			captured = req
			return &twitter.CountsResponse{
				Data: []twitter.CountBucket{{Start: "2023-02-01T00:00:00.000Z", TweetCount: 7}},
				Meta: twitter.CountsMeta{TotalTweetCount: 7},
			}, nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	resp, err := c.Counts(context.Background(), twitter.CountsRequest{Query: "storm", Granularity: "day"})
	require.NoError(t, err)

	assert.Equal(t, "storm", captured.Query)
	assert.Equal(t, 7, resp.Meta.TotalTweetCount)
}

func TestCountsRetriesRateLimit(t *testing.T) {
	calls := 0
	api := &mockAPIClient{
		tweetCounts: func(ctx context.Context, req twitter.CountsRequest) (*twitter.CountsResponse, error) {
			calls++
			if calls == 1 {
				return nil, errs.FromStatusCode(429, "limit hit")
			}
			return &twitter.CountsResponse{Meta: twitter.CountsMeta{TotalTweetCount: 1}}, nil
		},
	}

	c := newTestCollector(t, testConfig(), api)
	resp, err := c.Counts(context.Background(), twitter.CountsRequest{Query: "storm", Granularity: "day"})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, resp.Meta.TotalTweetCount)
}
