package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// MockTwitterServer simulates the Twitter API v2 endpoints with realistic
// behavior: deterministic paginated search results, bulk user lookups with
// partial errors, tweet counts, and programmable 429 responses.
type MockTwitterServer struct {
	server *httptest.Server

	// Shape of the synthetic search corpus
	totalPages    int
	tweetsPerPage int

	rateLimitNext  int32 // 429s still to serve before succeeding again
	rateLimitHits  int32
	requestCount   int32
	errorResponses map[string]int // Map of endpoint paths to error codes
	delays         map[string]time.Duration
	missingUsers   map[string]bool // IDs the lookup reports as not found
	cursors        map[string]string
	mu             sync.RWMutex
}

// NewMockTwitterServer creates a mock API serving totalPages pages of
// tweetsPerPage synthetic tweets each
func NewMockTwitterServer(totalPages, tweetsPerPage int) *MockTwitterServer {
	m := &MockTwitterServer{
		totalPages:     totalPages,
		tweetsPerPage:  tweetsPerPage,
		errorResponses: make(map[string]int),
		delays:         make(map[string]time.Duration),
		missingUsers:   make(map[string]bool),
		cursors:        make(map[string]string),
	}

	mux := http.NewServeMux()

	// Recent search endpoint
	mux.HandleFunc(twitter.SearchRecentEndpoint, m.handleSearch)

	// Bulk user lookup endpoint
	mux.HandleFunc(twitter.UserLookupEndpoint, m.handleUserLookup)

	// Tweet counts endpoint
	mux.HandleFunc(twitter.TweetCountsEndpoint, m.handleCounts)

	m.server = httptest.NewServer(mux)
	return m
}

// handleSearch serves one deterministic page of search results
func (m *MockTwitterServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(twitter.SearchRecentEndpoint); delay > 0 {
		time.Sleep(delay)
	}

	if errorCode := m.getErrorResponse(twitter.SearchRecentEndpoint); errorCode > 0 {
		m.sendError(w, errorCode)
		return
	}

	if m.takeRateLimitShot() {
		m.sendRateLimit(w)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":  "Invalid Request",
			"detail": "query parameter is required",
		})
		return
	}

	page := pageFromToken(r.URL.Query().Get("next_token"))
	if page > m.totalPages {
		// A cursor past the corpus yields an empty final page
		writeJSON(w, twitter.SearchResponse{
			Meta: twitter.SearchMeta{ResultCount: 0},
		})
		return
	}

	resp := GenerateSearchPage(page, m.tweetsPerPage)
	if page < m.totalPages {
		resp.Meta.NextToken = tokenForPage(page + 1)
	}

	m.mu.Lock()
	m.cursors[query] = resp.Meta.NextToken
	m.mu.Unlock()

	writeJSON(w, resp)
}

// handleUserLookup serves a bulk user lookup with partial errors for IDs
// configured as missing
func (m *MockTwitterServer) handleUserLookup(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(twitter.UserLookupEndpoint); delay > 0 {
		time.Sleep(delay)
	}

	if errorCode := m.getErrorResponse(twitter.UserLookupEndpoint); errorCode > 0 {
		m.sendError(w, errorCode)
		return
	}

	if m.takeRateLimitShot() {
		m.sendRateLimit(w)
		return
	}

	idsParam := r.URL.Query().Get("ids")
	if idsParam == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ids := strings.Split(idsParam, ",")
	if len(ids) > twitter.MaxLookupBatch {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":  "Invalid Request",
			"detail": fmt.Sprintf("at most %d ids per request", twitter.MaxLookupBatch),
		})
		return
	}

	var resp twitter.UserLookupResponse
	for _, id := range ids {
		if m.isMissingUser(id) {
			resp.Errors = append(resp.Errors, twitter.APIError{
				Title:        "Not Found Error",
				Detail:       fmt.Sprintf("Could not find user with ids: [%s].", id),
				Type:         "https://api.twitter.com/2/problems/resource-not-found",
				Value:        id,
				ResourceType: "user",
			})
			continue
		}
		resp.Data = append(resp.Data, GenerateUser(id))
	}

	writeJSON(w, resp)
}

// handleCounts serves seven deterministic volume buckets
func (m *MockTwitterServer) handleCounts(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(twitter.TweetCountsEndpoint); delay > 0 {
		time.Sleep(delay)
	}

	if errorCode := m.getErrorResponse(twitter.TweetCountsEndpoint); errorCode > 0 {
		m.sendError(w, errorCode)
		return
	}

	if m.takeRateLimitShot() {
		m.sendRateLimit(w)
		return
	}

	granularity := r.URL.Query().Get("granularity")
	if granularity == "" {
		granularity = "hour"
	}
	if !twitter.IsValidGranularity(granularity) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":  "Invalid Request",
			"detail": "granularity must be minute, hour or day",
		})
		return
	}

	step := map[string]time.Duration{
		"minute": time.Minute,
		"hour":   time.Hour,
		"day":    24 * time.Hour,
	}[granularity]

	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	var resp twitter.CountsResponse
	for i := 0; i < 7; i++ {
		bucketStart := start.Add(time.Duration(i) * step)
		count := 100 + i*10
		resp.Data = append(resp.Data, twitter.CountBucket{
			Start:      bucketStart.Format(time.RFC3339),
			End:        bucketStart.Add(step).Format(time.RFC3339),
			TweetCount: count,
		})
		resp.Meta.TotalTweetCount += count
	}

	writeJSON(w, resp)
}

// sendRateLimit answers with the 429 shape the real API uses
func (m *MockTwitterServer) sendRateLimit(w http.ResponseWriter) {
	atomic.AddInt32(&m.rateLimitHits, 1)
	w.Header().Set("x-rate-limit-remaining", "0")
	w.Header().Set("x-rate-limit-reset", strconv.FormatInt(time.Now().Add(15*time.Minute).Unix(), 10))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"title":  "Too Many Requests",
		"detail": "Too Many Requests",
		"type":   "about:blank",
		"status": 429,
	})
}

// sendError sends a configured error response
func (m *MockTwitterServer) sendError(w http.ResponseWriter, code int) {
	w.WriteHeader(code)

	switch code {
	case http.StatusUnauthorized:
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":  "Unauthorized",
			"detail": "Unauthorized",
			"status": 401,
		})
	case http.StatusInternalServerError:
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":  "Internal Server Error",
			"detail": "Something broke",
			"status": 500,
		})
	default:
		fmt.Fprintf(w, "Error %d", code)
	}
}

// takeRateLimitShot consumes one pending 429, if any are queued
func (m *MockTwitterServer) takeRateLimitShot() bool {
	for {
		n := atomic.LoadInt32(&m.rateLimitNext)
		if n <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&m.rateLimitNext, n, n-1) {
			return true
		}
	}
}

// RateLimitNextRequests makes the next n requests answer 429
func (m *MockTwitterServer) RateLimitNextRequests(n int) {
	atomic.StoreInt32(&m.rateLimitNext, int32(n))
}

// SetErrorResponse configures an endpoint to return a specific error code
func (m *MockTwitterServer) SetErrorResponse(endpoint string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[endpoint] = code
}

// ClearErrorResponse removes error configuration for an endpoint
func (m *MockTwitterServer) ClearErrorResponse(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorResponses, endpoint)
}

// SetDelay configures response delay for an endpoint
func (m *MockTwitterServer) SetDelay(endpoint string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[endpoint] = delay
}

// SetMissingUser marks an ID as deleted or suspended for lookups
func (m *MockTwitterServer) SetMissingUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missingUsers[id] = true
}

func (m *MockTwitterServer) getErrorResponse(endpoint string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errorResponses[endpoint]
}

func (m *MockTwitterServer) getDelay(endpoint string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delays[endpoint]
}

func (m *MockTwitterServer) isMissingUser(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.missingUsers[id]
}

// GetURL returns the base URL of the mock server
func (m *MockTwitterServer) GetURL() string {
	return m.server.URL
}

// GetRequestCount returns the total number of requests
func (m *MockTwitterServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetRateLimitHits returns the number of rate limit responses served
func (m *MockTwitterServer) GetRateLimitHits() int {
	return int(atomic.LoadInt32(&m.rateLimitHits))
}

// LastCursor returns the next_token most recently served for a query
func (m *MockTwitterServer) LastCursor(query string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursors[query]
}

// ResetCounters resets all request counters
func (m *MockTwitterServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
	atomic.StoreInt32(&m.rateLimitHits, 0)
	atomic.StoreInt32(&m.rateLimitNext, 0)
	m.mu.Lock()
	m.cursors = make(map[string]string)
	m.mu.Unlock()
}

// Close shuts down the mock server
func (m *MockTwitterServer) Close() {
	m.server.Close()
}

// tokenForPage builds the pagination cursor handed out for a page
func tokenForPage(page int) string {
	return fmt.Sprintf("PAGE_%d_TOKEN", page)
}

// pageFromToken recovers the page a cursor points at. No cursor means page 1.
func pageFromToken(token string) int {
	if token == "" {
		return 1
	}
	var page int
	if _, err := fmt.Sscanf(token, "PAGE_%d_TOKEN", &page); err != nil || page < 1 {
		return 1
	}
	return page
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
