package integration

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tgsn-co/XPlore/pkg/chart"
	"github.com/tgsn-co/XPlore/pkg/checkpoint"
	"github.com/tgsn-co/XPlore/pkg/collector"
	errs "github.com/tgsn-co/XPlore/pkg/errors"
	"github.com/tgsn-co/XPlore/pkg/export"
	"github.com/tgsn-co/XPlore/pkg/storage"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// mentionsHeader is the fixed column contract of the keyword export
const mentionsHeader = "tweet_Id,Author_Username,Source_of_Tweet,Author_id,Tag,Keyword,Created_at,Location,Tweet_Content"

// TestSearchToExportFlow tests the complete keyword collection flow from
// paginated search through CSV export
func TestSearchToExportFlow(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	helper.SetupMockServer(3, 5)
	cfg := helper.CreateTestConfig()

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	result, err := c.Search(context.Background(), "climate change")
	helper.AssertNoError(err, "Search failed")

	helper.AssertEqual(3, result.Pages, "Page count")
	helper.AssertEqual(15, len(result.Tweets), "Tweet count")
	helper.AssertEqual(7, len(result.Authors), "Author count")
	if result.Truncated() {
		t.Error("Expected an exhausted query, got a truncated run")
	}

	rows := export.BuildMentionRows(result.Tweets, result.Authors, result.Keyword)
	helper.AssertEqual(15, len(rows), "Export row count")

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
	helper.AssertNoError(err, "Failed to create storage manager")

	filename := export.MentionsFilename(result.Keyword)
	helper.AssertEqual("TweetsWith_climate change.csv", filename, "Export filename")

	err = store.Write(filename, func(w io.Writer) error {
		return export.WriteMentions(w, rows)
	})
	helper.AssertNoError(err, "Failed to write export")

	csvPath := store.Path(filename)
	helper.AssertFileExists(csvPath)
	helper.AssertFileContains(csvPath, mentionsHeader)
	helper.AssertEqual(16, helper.CountFileLines(csvPath), "Header plus one line per tweet")

	// The synthetic corpus cycles mention, retweet and plain texts
	helper.AssertFileContains(csvPath, ",mention,")
	helper.AssertFileContains(csvPath, ",retweet,")
	helper.AssertFileContains(csvPath, "author_900000")
}

// TestSearchRetriesAfterRateLimit tests that a rate limited page is retried
// once after the cooldown and collection completes
func TestSearchRetriesAfterRateLimit(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer(2, 3)
	cfg := helper.CreateTestConfig()

	mockServer.RateLimitNextRequests(1)

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	start := time.Now()
	result, err := c.Search(context.Background(), "golang")
	elapsed := time.Since(start)

	helper.AssertNoError(err, "Search should succeed after the retry")
	helper.AssertEqual(6, len(result.Tweets), "Tweet count")
	helper.AssertEqual(1, mockServer.GetRateLimitHits(), "Rate limit responses served")

	if elapsed < cfg.RateLimit.Cooldown {
		t.Errorf("Expected the retry to wait at least %v, finished in %v", cfg.RateLimit.Cooldown, elapsed)
	}

	// First page twice, second page once
	helper.AssertEqual(3, mockServer.GetRequestCount(), "Total requests")
}

// TestSearchFailsWhenRateLimitPersists tests that a second 429 after the
// cooldown abandons the run instead of retrying again
func TestSearchFailsWhenRateLimitPersists(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer(2, 3)
	cfg := helper.CreateTestConfig()

	mockServer.RateLimitNextRequests(5)

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	result, err := c.Search(context.Background(), "golang")

	helper.AssertError(err, "Search should fail when the retry is rate limited too")
	if !errs.IsRateLimit(err) {
		t.Errorf("Expected a rate limit error, got: %v", err)
	}
	if result != nil {
		t.Error("Expected no result from a failed run")
	}

	// Initial attempt plus exactly one retry
	helper.AssertEqual(2, mockServer.GetRateLimitHits(), "Rate limit responses served")
}

// TestTruncatedRunResumesFromCheckpoint tests the page ceiling, checkpoint
// save and cursor resume cycle end to end
func TestTruncatedRunResumesFromCheckpoint(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	helper.SetupMockServer(4, 5)
	cfg := helper.CreateTestConfig()
	cfg.Search.MaxPages = 2

	keyword := "election results"

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	// First run stops at the page ceiling with a live cursor
	first, err := c.Search(context.Background(), keyword)
	helper.AssertNoError(err, "First run failed")
	helper.AssertEqual(2, first.Pages, "First run pages")
	helper.AssertEqual(10, len(first.Tweets), "First run tweets")
	if !first.Truncated() {
		t.Fatal("Expected the first run to be truncated at the page ceiling")
	}
	helper.AssertEqual("PAGE_3_TOKEN", first.NextToken, "Preserved cursor")

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
	helper.AssertNoError(err, "Failed to create storage manager")

	filename := export.MentionsFilename(keyword)
	rows := export.BuildMentionRows(first.Tweets, first.Authors, keyword)
	err = store.Write(filename, func(w io.Writer) error {
		return export.WriteMentions(w, rows)
	})
	helper.AssertNoError(err, "Failed to write first export")

	// Save the cursor the way a finished truncated run does
	cpManager, err := checkpoint.NewManager(keyword)
	helper.AssertNoError(err, "Failed to create checkpoint manager")
	cp, err := cpManager.Create(keyword, filename)
	helper.AssertNoError(err, "Failed to create checkpoint")
	err = cpManager.UpdateProgress(cp, first.NextToken, first.Pages, len(first.Tweets))
	helper.AssertNoError(err, "Failed to update checkpoint")

	// A fresh load sees the live cursor
	loaded := helper.LoadTestCheckpoint(keyword)
	if loaded == nil || !loaded.HasCursor() {
		t.Fatal("Expected a checkpoint with a live cursor")
	}
	helper.AssertEqual("PAGE_3_TOKEN", loaded.NextToken, "Loaded cursor")
	helper.AssertEqual(10, loaded.TweetsCollected, "Checkpointed tweet count")

	// Second run picks up at the cursor and exhausts the query
	resumed, err := c.SearchFrom(context.Background(), keyword, loaded.NextToken)
	helper.AssertNoError(err, "Resumed run failed")
	helper.AssertEqual(2, resumed.Pages, "Resumed run pages")
	helper.AssertEqual(10, len(resumed.Tweets), "Resumed run tweets")
	if resumed.Truncated() {
		t.Error("Expected the resumed run to exhaust the query")
	}
	helper.AssertEqual("17000000000010", resumed.Tweets[0].ID, "Resume continues where the first run stopped")

	// Resumed rows continue the existing file without a second header
	resumedRows := export.BuildMentionRows(resumed.Tweets, resumed.Authors, keyword)
	err = store.Append(filename, func(w io.Writer) error {
		return export.AppendMentions(w, resumedRows)
	})
	helper.AssertNoError(err, "Failed to append resumed export")

	csvPath := store.Path(filename)
	helper.AssertEqual(21, helper.CountFileLines(csvPath), "Header plus all twenty tweets")
	content, err := os.ReadFile(csvPath)
	helper.AssertNoError(err, "Failed to read export")
	if count := strings.Count(string(content), "tweet_Id"); count != 1 {
		t.Errorf("Expected exactly one header line, found %d", count)
	}

	// A finished query clears its checkpoint
	err = cpManager.Delete()
	helper.AssertNoError(err, "Failed to delete checkpoint")
	if helper.LoadTestCheckpoint(keyword) != nil {
		t.Error("Expected no checkpoint after deletion")
	}
}

// TestLookupProfilesBatching tests that bulk lookups are split into
// API-sized batches and unresolved IDs are skipped
func TestLookupProfilesBatching(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer(1, 1)
	cfg := helper.CreateTestConfig()

	ids := GenerateUserIDs(250)
	mockServer.SetMissingUser(ids[7])

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	mockServer.ResetCounters()
	users, err := c.LookupProfiles(context.Background(), ids)
	helper.AssertNoError(err, "Lookup failed")

	helper.AssertEqual(3, mockServer.GetRequestCount(), "250 IDs need three batches")
	helper.AssertEqual(249, len(users), "Missing ID is skipped, not fatal")

	// Profiles come back fully hydrated
	first := users[0]
	helper.AssertEqual("user_"+ids[0], first.Username, "Username")
	helper.AssertEqual(120, first.PublicMetrics.FollowersCount, "Followers")

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
	helper.AssertNoError(err, "Failed to create storage manager")

	rows := export.BuildUserRows(users)
	err = store.Write(export.DefaultUsersFilename, func(w io.Writer) error {
		return export.WriteUsers(w, rows)
	})
	helper.AssertNoError(err, "Failed to write user export")

	csvPath := store.Path(export.DefaultUsersFilename)
	helper.AssertFileExists(csvPath)
	helper.AssertFileContains(csvPath, "id,username,name,created_at,location,verified,description,followers_count,following_count,tweet_count,listed_count")
	helper.AssertEqual(250, helper.CountFileLines(csvPath), "Header plus one line per resolved profile")
}

// TestLookupRejectsEmptyIDList tests that an empty ID list fails fast
func TestLookupRejectsEmptyIDList(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer(1, 1)
	cfg := helper.CreateTestConfig()

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	_, err = c.LookupProfiles(context.Background(), nil)
	helper.AssertErrorContains(err, "no user IDs", "Empty lookup")
	helper.AssertEqual(0, mockServer.GetRequestCount(), "No request should be made")
}

// TestTweetCountsToChartFlow tests volume counting and chart rendering
func TestTweetCountsToChartFlow(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	helper.SetupMockServer(1, 1)
	cfg := helper.CreateTestConfig()

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	resp, err := c.Counts(context.Background(), twitter.CountsRequest{
		Query:       "climate change",
		Granularity: twitter.GranularityDay,
	})
	helper.AssertNoError(err, "Counts failed")

	helper.AssertEqual(7, len(resp.Data), "Bucket count")
	helper.AssertEqual(910, resp.Meta.TotalTweetCount, "Total volume")
	helper.AssertEqual("2023-11-01T00:00:00Z", resp.Data[0].Start, "First bucket start")

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
	helper.AssertNoError(err, "Failed to create storage manager")

	filename := "Tweet_Volume" + chart.FormatSVG.Extension()
	err = store.Write(filename, func(w io.Writer) error {
		return chart.RenderCounts(w, resp.Data, twitter.GranularityDay, chart.FormatSVG)
	})
	helper.AssertNoError(err, "Failed to render chart")

	chartPath := store.Path(filename)
	helper.AssertFileExists(chartPath)
	helper.AssertFileContains(chartPath, "<svg")
	helper.AssertFileContains(chartPath, "2023-11-01")
}

// TestSearchRejectsOverlongQuery tests query validation before any request
func TestSearchRejectsOverlongQuery(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer(1, 1)
	cfg := helper.CreateTestConfig()

	c, err := collector.New(cfg)
	helper.AssertNoError(err, "Failed to create collector")

	_, err = c.Search(context.Background(), strings.Repeat("x", twitter.MaxQueryLength+1))
	helper.AssertError(err, "Overlong query should be rejected")
	helper.AssertEqual(0, mockServer.GetRequestCount(), "No request should be made")
}
