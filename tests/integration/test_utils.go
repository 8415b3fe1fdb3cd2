package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tgsn-co/XPlore/pkg/checkpoint"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// TestHelper provides utilities for integration testing
type TestHelper struct {
	t            *testing.T
	mockServer   *MockTwitterServer
	tempDir      string
	cleanupFuncs []func()
}

// NewTestHelper creates a new test helper instance. Checkpoints are routed
// into the temp directory so runs cannot see each other's saved cursors.
func NewTestHelper(t *testing.T) *TestHelper {
	tempDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tempDir)

	helper := &TestHelper{
		t:       t,
		tempDir: tempDir,
	}

	return helper
}

// SetupMockServer creates a mock API serving the given corpus shape
func (h *TestHelper) SetupMockServer(totalPages, tweetsPerPage int) *MockTwitterServer {
	h.mockServer = NewMockTwitterServer(totalPages, tweetsPerPage)
	h.AddCleanup(func() {
		h.mockServer.Close()
	})
	return h.mockServer
}

// AddCleanup adds a cleanup function to be called during test teardown
func (h *TestHelper) AddCleanup(fn func()) {
	h.cleanupFuncs = append(h.cleanupFuncs, fn)
}

// Cleanup runs all registered cleanup functions
func (h *TestHelper) Cleanup() {
	for i := len(h.cleanupFuncs) - 1; i >= 0; i-- {
		h.cleanupFuncs[i]()
	}
}

// CreateTestLogger creates a logger suitable for testing
func (h *TestHelper) CreateTestLogger() *logger.TestLogger {
	return logger.NewTestLogger()
}

// CreateTestConfig returns a config pointed at the mock server, with a
// cooldown short enough that retry tests finish in milliseconds
func (h *TestHelper) CreateTestConfig() *config.Config {
	if h.mockServer == nil {
		h.t.Fatal("SetupMockServer must be called before CreateTestConfig")
	}

	cfg := config.DefaultConfig()
	cfg.API.BearerToken = "TEST_BEARER_TOKEN"
	cfg.API.BaseURL = h.mockServer.GetURL()
	cfg.API.RequestTimeout = 5 * time.Second
	cfg.Search.MaxResults = 10
	cfg.Search.MaxPages = 10
	cfg.RateLimit.RequestsPerWindow = 1000
	cfg.RateLimit.Cooldown = 50 * time.Millisecond
	cfg.RateLimit.RetryAttempts = 2
	cfg.Output.BaseDirectory = filepath.Join(h.tempDir, "exports")
	cfg.Output.OverwriteExisting = true
	cfg.Notifications.Enabled = false
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"

	// Collectors pull the global logger, keep it quiet during tests
	if err := logger.Initialize(&cfg.Logging); err != nil {
		h.t.Fatalf("Failed to initialize logger: %v", err)
	}

	return cfg
}

// CreateTempSubDir creates a subdirectory in the temp directory
func (h *TestHelper) CreateTempSubDir(name string) string {
	subDir := filepath.Join(h.tempDir, name)
	if err := os.MkdirAll(subDir, 0755); err != nil {
		h.t.Fatalf("Failed to create temp subdirectory %s: %v", name, err)
	}
	return subDir
}

// TempDir returns the root temp directory for this test
func (h *TestHelper) TempDir() string {
	return h.tempDir
}

// CreateTestCheckpoint creates a saved checkpoint for testing resume paths
func (h *TestHelper) CreateTestCheckpoint(keyword, csvFile string) *checkpoint.Checkpoint {
	manager, err := checkpoint.NewManager(keyword)
	if err != nil {
		h.t.Fatalf("Failed to create checkpoint manager: %v", err)
	}

	cp, err := manager.Create(keyword, csvFile)
	if err != nil {
		h.t.Fatalf("Failed to create checkpoint: %v", err)
	}

	return cp
}

// LoadTestCheckpoint loads the saved checkpoint for a keyword, nil if none
func (h *TestHelper) LoadTestCheckpoint(keyword string) *checkpoint.Checkpoint {
	manager, err := checkpoint.NewManager(keyword)
	if err != nil {
		h.t.Fatalf("Failed to create checkpoint manager: %v", err)
	}

	cp, err := manager.Load()
	if err != nil {
		h.t.Fatalf("Failed to load checkpoint: %v", err)
	}

	return cp
}

// AssertFileExists checks that a file exists
func (h *TestHelper) AssertFileExists(path string) {
	h.t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		h.t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks that a file does not exist
func (h *TestHelper) AssertFileNotExists(path string) {
	h.t.Helper()
	if _, err := os.Stat(path); err == nil {
		h.t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks that a file contains expected content
func (h *TestHelper) AssertFileContains(path, expectedContent string) {
	h.t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		h.t.Errorf("Failed to read file %s: %v", path, err)
		return
	}

	if !strings.Contains(string(content), expectedContent) {
		h.t.Errorf("File %s does not contain expected content: %s", path, expectedContent)
	}
}

// CountFileLines returns the number of non-empty lines in a file
func (h *TestHelper) CountFileLines(path string) int {
	h.t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		h.t.Fatalf("Failed to read file %s: %v", path, err)
	}

	count := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// AssertDirContainsFiles checks that a directory contains expected files
func (h *TestHelper) AssertDirContainsFiles(dirPath string, expectedFiles []string) {
	h.t.Helper()
	files, err := os.ReadDir(dirPath)
	if err != nil {
		h.t.Errorf("Failed to read directory %s: %v", dirPath, err)
		return
	}

	fileMap := make(map[string]bool)
	for _, file := range files {
		fileMap[file.Name()] = true
	}

	for _, expectedFile := range expectedFiles {
		if !fileMap[expectedFile] {
			h.t.Errorf("Directory %s does not contain expected file: %s", dirPath, expectedFile)
		}
	}
}

// WaitForCondition waits for a condition to become true with timeout
func (h *TestHelper) WaitForCondition(condition func() bool, timeout time.Duration, message string) {
	h.t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.t.Errorf("Condition not met within %v: %s", timeout, message)
}

// AssertNoError fails the test if err is not nil
func (h *TestHelper) AssertNoError(err error, message string) {
	h.t.Helper()
	if err != nil {
		h.t.Errorf("%s: %v", message, err)
	}
}

// AssertError fails the test if err is nil
func (h *TestHelper) AssertError(err error, message string) {
	h.t.Helper()
	if err == nil {
		h.t.Errorf("%s: expected error but got nil", message)
	}
}

// AssertErrorContains fails the test if err is nil or doesn't contain expected text
func (h *TestHelper) AssertErrorContains(err error, expectedText, message string) {
	h.t.Helper()
	if err == nil {
		h.t.Errorf("%s: expected error but got nil", message)
		return
	}

	if !strings.Contains(err.Error(), expectedText) {
		h.t.Errorf("%s: error %q does not contain %q", message, err.Error(), expectedText)
	}
}

// AssertEqual fails the test if expected != actual
func (h *TestHelper) AssertEqual(expected, actual interface{}, message string) {
	h.t.Helper()
	if expected != actual {
		h.t.Errorf("%s: expected %v, got %v", message, expected, actual)
	}
}

// sampleTexts cycles mention, retweet and plain tweets so exports exercise
// every tag the classifier can produce
var sampleTexts = []string{
	"Check out what @devrel_%d said about %s",
	"RT @newsfeed_%d: breaking coverage of %s",
	"Take %d on %s after today's briefing",
}

// GenerateSearchPage builds one deterministic page of search results.
// Tweet IDs and author IDs are derived from the page number so every
// run of the mock serves identical data.
func GenerateSearchPage(page, perPage int) twitter.SearchResponse {
	var resp twitter.SearchResponse
	seen := make(map[string]bool)

	base := time.Date(2023, 11, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < perPage; i++ {
		n := (page-1)*perPage + i
		authorID := fmt.Sprintf("90000%d", n%7)
		text := fmt.Sprintf(sampleTexts[n%len(sampleTexts)], n%7, "the topic")

		resp.Data = append(resp.Data, twitter.Tweet{
			ID:        fmt.Sprintf("1700000000%04d", n),
			AuthorID:  authorID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(n) * time.Minute).Format(time.RFC3339),
		})

		if !seen[authorID] {
			seen[authorID] = true
			resp.Includes.Users = append(resp.Includes.Users, twitter.User{
				ID:       authorID,
				Username: fmt.Sprintf("author_%s", authorID),
				Location: fmt.Sprintf("City %d", n%7),
			})
		}
	}

	resp.Meta.ResultCount = len(resp.Data)
	if len(resp.Data) > 0 {
		resp.Meta.NewestID = resp.Data[0].ID
		resp.Meta.OldestID = resp.Data[len(resp.Data)-1].ID
	}

	return resp
}

// GenerateUser builds the full user object the lookup endpoint returns
func GenerateUser(id string) twitter.User {
	return twitter.User{
		ID:          id,
		Username:    fmt.Sprintf("user_%s", id),
		Name:        fmt.Sprintf("User %s", id),
		Location:    "Test City",
		CreatedAt:   "2020-03-15T09:30:00.000Z",
		Verified:    false,
		Description: "Integration test profile",
		URL:         fmt.Sprintf("https://example.com/%s", id),
		PublicMetrics: twitter.PublicMetrics{
			FollowersCount: 120,
			FollowingCount: 80,
			TweetCount:     540,
			ListedCount:    3,
		},
	}
}

// GenerateUserIDs builds n sequential numeric IDs for lookup tests
func GenerateUserIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("80000%04d", i)
	}
	return ids
}
