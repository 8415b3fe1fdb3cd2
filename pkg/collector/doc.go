// Package collector provides the core functionality for collecting tweets
// and user profiles from the Twitter API.
//
// The collector package orchestrates the paginated retrieval process,
// coordinating between the API client, client-side rate limiting, and the
// shared retry policy.
//
// Architecture:
//
// The Collector struct is the main component that:
//   - Follows search pagination cursors up to a configurable page ceiling
//   - Accumulates tweets in arrival order and indexes authors by user ID
//   - Batches bulk profile lookups to the API's per-call limit
//   - Applies one retry policy to every endpoint: a 429 sleeps for the
//     configured cooldown and is retried once, any other failure is final
//   - Reports progress events to an attached display
//
// Usage:
//
//	cfg := config.DefaultConfig()
//	cfg.API.BearerToken = os.Getenv("XPLORE_BEARER_TOKEN")
//
//	c, err := collector.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Search(ctx, "climate change")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("collected %d tweets over %d pages\n", len(result.Tweets), result.Pages)
//
// Failure model:
//
// A collection run either succeeds as a whole or fails as a whole. When a
// page or batch request fails, everything accumulated before it is discarded
// and the error is returned. A run stopped by the page ceiling is still a
// success; the Result keeps the pagination cursor so a later run can resume.
package collector
