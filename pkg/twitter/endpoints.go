package twitter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	errs "github.com/tgsn-co/XPlore/pkg/errors"
)

const (
	// BaseURL is the base URL for the Twitter API
	BaseURL = "https://api.twitter.com"

	// SearchRecentEndpoint serves keyword search over roughly the last week
	SearchRecentEndpoint = "/2/tweets/search/recent"

	// UserLookupEndpoint serves bulk user lookup by ID
	UserLookupEndpoint = "/2/users"

	// TweetCountsEndpoint serves tweet volume counts over a time range
	TweetCountsEndpoint = "/2/tweets/counts/all"

	// MinPageSize and MaxPageSize bound the max_results search parameter
	MinPageSize = 10
	MaxPageSize = 100

	// MaxLookupBatch is the most user IDs one lookup call accepts
	MaxLookupBatch = 100

	// MaxQueryLength is the longest query string the API accepts
	MaxQueryLength = 512
)

// Field selections sent with each request. Search pages only need enough to
// build mention rows; lookups request the full profile for the users export.
const (
	SearchTweetFields = "created_at,author_id,text"
	SearchExpansions  = "author_id"
	SearchUserFields  = "username,location"
	LookupUserFields  = "created_at,description,entities,id,location,name,pinned_tweet_id,public_metrics,url,username,verified"
)

// Supported counts granularities
const (
	GranularityMinute = "minute"
	GranularityHour   = "hour"
	GranularityDay    = "day"
)

// SearchRecentURL constructs the URL for one page of recent search results
func SearchRecentURL(base string, req SearchRequest) string {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("max_results", strconv.Itoa(req.MaxResults))
	params.Set("tweet.fields", SearchTweetFields)
	params.Set("expansions", SearchExpansions)
	params.Set("user.fields", SearchUserFields)
	if req.NextToken != "" {
		params.Set("next_token", req.NextToken)
	}

	return fmt.Sprintf("%s%s?%s", base, SearchRecentEndpoint, params.Encode())
}

// UserLookupURL constructs the URL for a bulk user lookup by ID
func UserLookupURL(base string, ids []string) string {
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("user.fields", LookupUserFields)

	return fmt.Sprintf("%s%s?%s", base, UserLookupEndpoint, params.Encode())
}

// TweetCountsURL constructs the URL for a tweet counts call
func TweetCountsURL(base string, req CountsRequest) string {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("granularity", req.Granularity)
	if req.StartTime != "" {
		params.Set("start_time", req.StartTime)
	}
	if req.EndTime != "" {
		params.Set("end_time", req.EndTime)
	}

	return fmt.Sprintf("%s%s?%s", base, TweetCountsEndpoint, params.Encode())
}

// ValidateQuery checks a search query against API constraints
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return errs.New(errs.ErrorTypeValidation, "search query must not be empty")
	}
	if len(query) > MaxQueryLength {
		return errs.Newf(errs.ErrorTypeValidation, "search query exceeds %d characters", MaxQueryLength)
	}
	return nil
}

// ClampPageSize forces a page size into the range the API accepts
func ClampPageSize(n int) int {
	if n < MinPageSize {
		return MinPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// IsValidGranularity reports whether g is a granularity the counts endpoint accepts
func IsValidGranularity(g string) bool {
	switch g {
	case GranularityMinute, GranularityHour, GranularityDay:
		return true
	default:
		return false
	}
}
