package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tgsn-co/XPlore/pkg/checkpoint"
	"github.com/tgsn-co/XPlore/pkg/collector"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/export"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/metadata"
	"github.com/tgsn-co/XPlore/pkg/storage"
	"github.com/tgsn-co/XPlore/pkg/ui"
	"github.com/tgsn-co/XPlore/pkg/ui/tui"
)

var (
	// Search command flags
	maxResults   int
	maxPages     int
	resumeSearch bool
	forceRestart bool
	useTUI       bool
	notifyDone   bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Collect recent tweets matching a keyword",
	Long: `Collect every recent tweet matching a keyword and export them to CSV.

This command requires a Twitter API bearer token to be configured either through:
  - Stored credentials (use 'xplore auth login' to store)
  - An environment variable (XPLORE_BEARER_TOKEN)
  - Configuration file

The collector follows the pagination cursor until the query is exhausted or the
page ceiling is reached, waits out rate limit cooldowns automatically, resolves
every tweet author through bulk profile lookups, and writes a TweetsWith_<keyword>.csv
spreadsheet with mention and retweet tags on every row.`,
	Example: `  # Collect tweets using default settings
  xplore search "climate change"

  # Cap the collection at 10 pages of 50 tweets
  xplore search "climate change" --max-pages 10 --max-results 50

  # Use a specific stored account
  xplore search "climate change" --account research

  # Resume a collection that stopped at the page ceiling
  xplore search "climate change" --resume

  # Force restart, ignoring existing checkpoint
  xplore search "climate change" --force-restart

  # Watch the collection in the interactive terminal UI
  xplore search "climate change" --tui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runSearch(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	// Local flags for search command
	searchCmd.Flags().IntVar(&maxResults, "max-results", 0, "tweets requested per page, 10 to 100 (default from config)")
	searchCmd.Flags().IntVar(&maxPages, "max-pages", 0, "page ceiling for the collection (default from config)")
	searchCmd.Flags().BoolVar(&resumeSearch, "resume", false, "resume from the last saved cursor")
	searchCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "force restart, ignoring existing checkpoint")
	searchCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
	searchCmd.Flags().BoolVar(&notifyDone, "notify", true, "send a desktop notification when the collection ends")

	// Also add these flags to root command so the bare keyword form keeps working
	rootCmd.Flags().IntVar(&maxResults, "max-results", 0, "tweets requested per page, 10 to 100 (default from config)")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "page ceiling for the collection (default from config)")
	rootCmd.Flags().BoolVar(&resumeSearch, "resume", false, "resume from the last saved cursor")
	rootCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "force restart, ignoring existing checkpoint")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
	rootCmd.Flags().BoolVar(&notifyDone, "notify", true, "send a desktop notification when the collection ends")
}

func runSearch(cmd *cobra.Command, args []string) {
	keyword := strings.TrimSpace(args[0])
	if keyword == "" {
		ui.PrintError("Keyword must not be empty", "")
		os.Exit(1)
	}

	// If TUI is enabled, we'll handle output differently
	if !useTUI {
		ui.PrintInfo("Target Keyword", keyword)
	}

	// Build flags map from command line
	flags := buildFlagMap()
	if maxResults > 0 {
		flags["max-results"] = maxResults
	}
	if maxPages > 0 {
		flags["max-pages"] = maxPages
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if !notifications {
		cfg.Notifications.Enabled = false
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("XPlore starting")

	// Handle credentials
	resolveToken(cfg)

	// Checkpoint bookkeeping for resumable collections
	cpManager, err := checkpoint.NewManager(keyword)
	if err != nil {
		ui.PrintError("Failed to initialize checkpoint manager", err.Error())
		os.Exit(1)
	}

	if forceRestart {
		if err := cpManager.Delete(); err != nil {
			logger.WithError(err).Warn("Failed to delete checkpoint")
		}
	}

	var cp *checkpoint.Checkpoint
	var cursor string
	if resumeSearch && !forceRestart {
		cp, err = cpManager.Load()
		if err != nil {
			ui.PrintError("Failed to load checkpoint", err.Error())
			os.Exit(1)
		}
		if cp == nil || !cp.HasCursor() {
			ui.PrintWarning("No saved cursor for this keyword, starting fresh")
			cp = nil
		} else {
			cursor = cp.NextToken
			ui.PrintInfo("Resuming collection", fmt.Sprintf("%d pages, %d tweets already on disk", cp.PagesFetched, cp.TweetsCollected))
		}
	}

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		os.Exit(1)
	}

	c, err := collector.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize collector", err.Error())
		os.Exit(1)
	}

	logger.WithField("keyword", keyword).Info("Starting collection")

	var result *collector.Result
	if useTUI {
		terminal := tui.NewTUI(keyword, cfg.Search.MaxPages)

		// Run the collection in a goroutine
		type outcome struct {
			result *collector.Result
			err    error
		}
		collectDone := make(chan outcome, 1)
		go func() {
			c.SetProgress(&tuiProgress{
				terminal: terminal,
				keyword:  keyword,
				rateMax:  cfg.RateLimit.RequestsPerWindow,
			})
			terminal.StartPage(1, keyword)
			res, err := c.SearchFrom(context.Background(), keyword, cursor)
			collectDone <- outcome{result: res, err: err}
		}()

		// Run TUI in main thread
		tuiDone := make(chan error, 1)
		go func() {
			tuiDone <- terminal.Start()
		}()

		// Wait for either to finish
		select {
		case out := <-collectDone:
			terminal.Stop()
			<-tuiDone // Wait for TUI to finish
			if out.err != nil {
				logger.WithError(out.err).WithField("keyword", keyword).Error("Collection failed")
				if cfg.Notifications.Enabled && cfg.Notifications.OnError && notifyDone {
					ui.NewNotifier().SendError("XPlore", fmt.Sprintf("Collection for %q failed", keyword))
				}
				ui.PrintError("COLLECTION FAILED", out.err.Error())
				os.Exit(1)
			}
			result = out.result
		case err := <-tuiDone:
			if err != nil {
				logger.WithError(err).Error("TUI failed")
				os.Exit(1)
			}
			// The user quit the TUI before the collection finished.
			// Nothing is exported for an abandoned run.
			ui.PrintWarning("Collection cancelled before it finished")
			os.Exit(1)
		}
	} else {
		// Original non-TUI flow
		ui.PrintHighlight("[INITIATING COLLECTION SEQUENCE]")

		display := ui.NewCollectionDisplay(keyword, cfg.Search.MaxPages, verbose)
		c.SetProgress(display)

		result, err = c.SearchFrom(context.Background(), keyword, cursor)
		if err != nil {
			logger.WithError(err).WithField("keyword", keyword).Error("Collection failed")
			if cfg.Notifications.Enabled && cfg.Notifications.OnError && notifyDone {
				ui.NewNotifier().SendError("XPlore", fmt.Sprintf("Collection for %q failed", keyword))
			}
			ui.PrintError("COLLECTION FAILED", err.Error())
			os.Exit(1)
		}
	}

	// Build and write the CSV export
	rows := export.BuildMentionRows(result.Tweets, result.Authors, keyword)
	filename := export.MentionsFilename(keyword)

	if cp != nil && store.Exists(filename) {
		// Resumed run: the new rows continue the existing spreadsheet
		err = store.Append(filename, func(w io.Writer) error {
			return export.AppendMentions(w, rows)
		})
	} else {
		err = store.Write(filename, func(w io.Writer) error {
			return export.WriteMentions(w, rows)
		})
	}
	if err != nil {
		ui.PrintError("Failed to write CSV export", err.Error())
		os.Exit(1)
	}

	// Sidecar manifest describing this run
	manifest := metadata.FromResult(result, filename)
	if err := manifest.Save(store.Path(filename)); err != nil {
		logger.WithError(err).Warn("Failed to write export manifest")
	}

	if result.Truncated() {
		// Stopped at the page ceiling with a live cursor left
		if cp == nil {
			cp, err = cpManager.Create(keyword, filename)
		}
		if err == nil {
			err = cpManager.UpdateProgress(cp, result.NextToken, result.Pages, len(result.Tweets))
		}
		if err != nil {
			logger.WithError(err).Warn("Failed to save checkpoint")
		} else {
			ui.PrintInfo("Checkpoint saved", "Run again with --resume to continue from the saved cursor")
		}
	} else if err := cpManager.Delete(); err != nil {
		logger.WithError(err).Warn("Failed to delete checkpoint")
	}

	logger.WithFields(map[string]interface{}{
		"keyword": keyword,
		"pages":   result.Pages,
		"tweets":  len(result.Tweets),
	}).Info("Collection completed successfully")

	if cfg.Notifications.Enabled && cfg.Notifications.OnComplete && notifyDone {
		ui.NewNotifier().SendSuccess("XPlore", fmt.Sprintf("Collected %d tweets for %q", len(result.Tweets), keyword))
	}

	ui.PrintSuccess("[COLLECTION COMPLETED SUCCESSFULLY]")
	fmt.Printf("\n%s\n", manifest.Summary())
	fmt.Printf("Saved to %s\n", store.Path(filename))
}

// tuiProgress forwards collector progress events to the terminal UI. Tweet
// and author counts arrive as running totals, which is what the TUI expects.
type tuiProgress struct {
	terminal ui.TUI
	keyword  string
	rateMax  int
}

func (p *tuiProgress) PageFetched(page, tweets, authors int) {
	p.terminal.CompletePage(page, tweets, authors)
	p.terminal.StartPage(page+1, p.keyword)
}

func (p *tuiProgress) RateLimitWait(delay time.Duration) {
	p.terminal.UpdateRateLimit(p.rateMax, p.rateMax, time.Now().Add(delay))
	p.terminal.LogWarning("Rate limit reached, cooling down for %s", delay.Round(time.Second))
}

func (p *tuiProgress) LookupBatch(batch, users int) {
	p.terminal.LogInfo("Lookup batch %d: %d profiles resolved", batch, users)
}

func (p *tuiProgress) Done(pages, tweets int) {
	p.terminal.LogSuccess("Collected %d tweets over %d pages", tweets, pages)
}

func (p *tuiProgress) Fail(err error) {
	p.terminal.LogError("Collection failed: %v", err)
}

// Make search the default command when no subcommand is specified, so the
// original single-argument invocation keeps working
func init() {
	origRunE := rootCmd.RunE
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if origRunE != nil {
			return origRunE(cmd, args)
		}
		if len(args) > 0 && !isKnownCommand(args[0]) {
			// Treat the first argument as a search keyword
			return searchCmd.RunE(searchCmd, args)
		}
		// Otherwise show help
		return cmd.Help()
	}

	// Set Args to allow arbitrary arguments
	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
