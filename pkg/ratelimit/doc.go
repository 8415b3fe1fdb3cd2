// Package ratelimit provides client-side rate limiting for the Twitter API.
//
// The API enforces per-window request quotas (for example 450 search requests
// per 15 minutes on app-only auth). Staying under the quota locally avoids
// burning the one permitted 429 retry on traffic we could have paced ourselves.
//
// Available Implementations:
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - Mirrors how the API accounts its quotas
//   - Default implementation used by the collector
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Suitable for burst traffic followed by quiet periods
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Sliding window: 450 requests per 15 minutes
//	limiter := ratelimit.NewSlidingWindow(450, 15*time.Minute)
//
//	// Block until allowed
//	limiter.Wait()
//	// Proceed with request
package ratelimit
