// Package retry provides backoff and retry logic for handling transient
// failures in Twitter API calls.
//
// Features:
//   - Multiple backoff strategies (exponential, linear, constant)
//   - Jitter to avoid thundering herd problems
//   - Context support for cancellation
//   - Configurable retry predicates
//   - A rate-limit policy matching the API's 429 contract
//
// Basic usage:
//
//	// Simple retry with defaults
//	err := retry.Do(func() error {
//		return client.SearchRecent(ctx, req)
//	}, nil)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.ExponentialBackoff{
//			BaseDelay:    2 * time.Second,
//			MaxDelay:     30 * time.Second,
//			Multiplier:   2.0,
//			JitterFactor: 0.1,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
//	err := retry.Do(operation, cfg)
//
// Rate-limit policy:
//
// Every API path in this codebase retries through the same policy: when the
// API answers 429 the request is retried exactly once after a fixed cooldown,
// and any other failure is returned immediately.
//
//	cfg := retry.NewRateLimitPolicy(ctx, 901*time.Second, 2, log)
//	err := retry.Do(fetchPage, cfg)
package retry
