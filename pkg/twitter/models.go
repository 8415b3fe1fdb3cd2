package twitter

// Tweet represents a single tweet returned by the search endpoint.
//
// CreatedAt stays a string on purpose: the API hands back RFC3339 timestamps
// and the exporters write them through unchanged, so parsing would only risk
// reformatting drift.
type Tweet struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// User represents a Twitter user object.
//
// Search responses carry only the requested user.fields (username, location);
// bulk lookups fill the full set including public metrics.
type User struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Name          string        `json:"name,omitempty"`
	Location      string        `json:"location,omitempty"`
	CreatedAt     string        `json:"created_at,omitempty"`
	Verified      bool          `json:"verified,omitempty"`
	Description   string        `json:"description,omitempty"`
	URL           string        `json:"url,omitempty"`
	PinnedTweetID string        `json:"pinned_tweet_id,omitempty"`
	PublicMetrics PublicMetrics `json:"public_metrics,omitempty"`
}

// PublicMetrics holds the public engagement counters of a user
type PublicMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
}

// Includes carries expanded objects referenced by the primary data
type Includes struct {
	Users []User `json:"users"`
}

// SearchMeta contains pagination information for a search response
type SearchMeta struct {
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// SearchResponse represents one page of recent search results
type SearchResponse struct {
	Data     []Tweet    `json:"data"`
	Includes Includes   `json:"includes"`
	Meta     SearchMeta `json:"meta"`
	Errors   []APIError `json:"errors,omitempty"`
}

// UserLookupResponse represents the response of a bulk user lookup
type UserLookupResponse struct {
	Data   []User     `json:"data"`
	Errors []APIError `json:"errors,omitempty"`
}

// CountBucket is one time bucket of the tweet counts endpoint
type CountBucket struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	TweetCount int    `json:"tweet_count"`
}

// CountsMeta contains the aggregate of a counts response
type CountsMeta struct {
	TotalTweetCount int `json:"total_tweet_count"`
}

// CountsResponse represents the response of the tweet counts endpoint
type CountsResponse struct {
	Data   []CountBucket `json:"data"`
	Meta   CountsMeta    `json:"meta"`
	Errors []APIError    `json:"errors,omitempty"`
}

// APIError is a partial error the API reports alongside data, for example
// when some looked-up user IDs do not exist
type APIError struct {
	Title        string `json:"title"`
	Detail       string `json:"detail"`
	Type         string `json:"type"`
	Value        string `json:"value,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

// SearchRequest describes one paginated recent-search call
type SearchRequest struct {
	Query      string
	MaxResults int
	NextToken  string
}

// CountsRequest describes a tweet counts call
type CountsRequest struct {
	Query       string
	Granularity string
	StartTime   string
	EndTime     string
}
