// Package twitter implements the HTTP client for the Twitter API v2
// endpoints XPlore collects from.
//
// The client authenticates with an app-only bearer token and exposes one
// method per endpoint: SearchRecent (paginated keyword search), LookupUsers
// (bulk profiles by ID) and TweetCounts (volume buckets over a time range).
// Every non-2xx response is returned as a typed error from pkg/errors that
// carries the HTTP status code and the raw response body.
//
// The client performs no retries itself. Rate-limit handling lives one layer
// up in pkg/collector, which routes every call through the shared retry
// policy so search and lookup behave identically when the API answers 429.
package twitter
