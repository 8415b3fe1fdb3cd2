package collector_test

import (
	"context"
	"fmt"
	"os"

	"github.com/tgsn-co/XPlore/pkg/collector"
	"github.com/tgsn-co/XPlore/pkg/config"
)

func ExampleCollector_Search() {
	cfg := config.DefaultConfig()
	cfg.API.BearerToken = os.Getenv("XPLORE_BEARER_TOKEN")

	// Create collector
	c, err := collector.New(cfg)
	if err != nil {
		fmt.Printf("Failed to create collector: %v\n", err)
		return
	}

	// Collect every page of recent results for the keyword
	result, err := c.Search(context.Background(), "climate change")
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		return
	}

	fmt.Printf("Collected %d tweets from %d pages\n", len(result.Tweets), result.Pages)
	if result.Truncated() {
		fmt.Println("More results remain, rerun with --resume to continue")
	}
}
