// Package ui provides terminal UI components for the collection tool
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintLogo()                                    // Print ASCII logo
ui.PrintInfo("Keyword", "climate change")        // Cyan label with value
ui.PrintSuccess("Collection completed!")         // Green success message
ui.PrintError("Search failed", err)              // Red error message
ui.PrintWarning("Rate limit approaching")        // Yellow warning message
ui.PrintHighlight("[COLLECTING]")                // Magenta highlight message

// Progress tracking
tracker := ui.NewStatusTracker()
tracker.RecordPage(98)                           // Record a fetched page
tracker.PrintProgress()                          // Print progress bar
tracker.PrintWindowStatus()                      // Print quota status
if tracker.IsRateLimitReached() {               // Check request budget
    tracker.ResetWindow()                        // Reset window counter
}

// Live collection display wired into the collector
display := ui.NewCollectionDisplay("climate change", 100, false)
c.SetProgress(display)

// Notifications (cross-platform)
notifier := ui.NewNotifier()
notifier.SendNotification("Collection Complete", "All pages fetched successfully")
notifier.SendError("Error", "Search abandoned after repeated rate limits")
notifier.SendSuccess("Success", "CSV export written")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Keyword"), ui.Yellow("climate change"))
fmt.Println(ui.Green("✓ Success"))
fmt.Println(ui.Red("✗ Failed"))
*/
