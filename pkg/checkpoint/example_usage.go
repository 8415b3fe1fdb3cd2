package checkpoint

import (
	"fmt"
	"log"
)

func ExampleManager() {
	// Create checkpoint manager for a keyword
	mgr, err := NewManager("climate change")
	if err != nil {
		log.Fatal(err)
	}

	// Check if checkpoint exists
	if mgr.Exists() {
		// Load existing checkpoint
		cp, err := mgr.Load()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Resuming from checkpoint: %d tweets collected\n", cp.TweetsCollected)

		// Continue from where we left off
		fmt.Printf("Last cursor: %s\n", cp.NextToken)
	} else {
		// Create new checkpoint
		cp, err := mgr.Create("climate change", "TweetsWith_climate change.csv")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Starting fresh collection")

		// Record pagination progress after a truncated run
		err = mgr.UpdateProgress(cp, "b26v89c19zqg8o3f", 100, 9800)
		if err != nil {
			log.Fatal(err)
		}
	}

	// When pagination is exhausted, delete the checkpoint
	err = mgr.Delete()
	if err != nil {
		log.Printf("Failed to delete checkpoint: %v", err)
	}
}

func ExampleCheckpoint_HasCursor() {
	cp := &Checkpoint{Keyword: "climate change", NextToken: "b26v89c19zqg8o3f"}

	if cp.HasCursor() {
		fmt.Println("search stopped at the page ceiling, resume is possible")
	}

	cp.NextToken = ""
	if !cp.HasCursor() {
		fmt.Println("pagination exhausted, nothing to resume")
	}

	// Output:
	// search stopped at the page ceiling, resume is possible
	// pagination exhausted, nothing to resume
}
