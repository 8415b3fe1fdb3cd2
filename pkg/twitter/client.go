package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "github.com/tgsn-co/XPlore/pkg/errors"
	"github.com/tgsn-co/XPlore/pkg/logger"
)

// Client is an app-only (bearer token) Twitter API v2 client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new Twitter API client
func NewClient(bearerToken string, timeout time.Duration, log logger.Logger) *Client {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Authorization": "Bearer " + bearerToken,
			"User-Agent":    "xplore/1.0",
			"Accept":        "application/json",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL points the client at a different API host, used by tests
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// BaseURL returns the API host the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	// Set all headers
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// getJSON performs a GET request and decodes the JSON response.
//
// Non-2xx responses become typed errors carrying the status code and the full
// response body, so callers can surface exactly what the API said.
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnWithFields("API request rejected", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
			"body":   preview(body),
		})
		return errs.FromStatusCode(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview(body),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// preview truncates a response body for logging
func preview(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// SearchRecent fetches one page of recent tweets matching the request query
func (c *Client) SearchRecent(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := ValidateQuery(req.Query); err != nil {
		return nil, err
	}
	req.MaxResults = ClampPageSize(req.MaxResults)

	url := SearchRecentURL(c.baseURL, req)
	c.logger.DebugWithFields("fetching search page", map[string]interface{}{
		"query":      req.Query,
		"next_token": req.NextToken,
	})

	var response SearchResponse
	if err := c.getJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch search page", map[string]interface{}{
			"query": req.Query,
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("fetched search page", map[string]interface{}{
		"query":        req.Query,
		"result_count": response.Meta.ResultCount,
		"has_next":     response.Meta.NextToken != "",
	})

	return &response, nil
}

// LookupUsers fetches full profiles for up to MaxLookupBatch user IDs
func (c *Client) LookupUsers(ctx context.Context, ids []string) (*UserLookupResponse, error) {
	if len(ids) == 0 {
		return nil, errs.New(errs.ErrorTypeValidation, "no user IDs to look up")
	}
	if len(ids) > MaxLookupBatch {
		return nil, errs.Newf(errs.ErrorTypeValidation, "at most %d user IDs per lookup, got %d", MaxLookupBatch, len(ids))
	}

	url := UserLookupURL(c.baseURL, ids)
	c.logger.DebugWithFields("looking up users", map[string]interface{}{
		"count": len(ids),
	})

	var response UserLookupResponse
	if err := c.getJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to look up users", map[string]interface{}{
			"count": len(ids),
			"error": err.Error(),
		})
		return nil, err
	}

	if len(response.Errors) > 0 {
		c.logger.WarnWithFields("lookup reported partial errors", map[string]interface{}{
			"errors": len(response.Errors),
		})
	}

	return &response, nil
}

// TweetCounts fetches tweet volume buckets for a query over a time range
func (c *Client) TweetCounts(ctx context.Context, req CountsRequest) (*CountsResponse, error) {
	if err := ValidateQuery(req.Query); err != nil {
		return nil, err
	}
	if !IsValidGranularity(req.Granularity) {
		return nil, errs.Newf(errs.ErrorTypeValidation, "invalid granularity %q", req.Granularity)
	}

	url := TweetCountsURL(c.baseURL, req)
	c.logger.DebugWithFields("fetching tweet counts", map[string]interface{}{
		"query":       req.Query,
		"granularity": req.Granularity,
	})

	var response CountsResponse
	if err := c.getJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch tweet counts", map[string]interface{}{
			"query": req.Query,
			"error": err.Error(),
		})
		return nil, err
	}

	return &response, nil
}
