package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tgsn-co/XPlore/pkg/chart"
	"github.com/tgsn-co/XPlore/pkg/collector"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/storage"
	"github.com/tgsn-co/XPlore/pkg/twitter"
	"github.com/tgsn-co/XPlore/pkg/ui"
)

var (
	// Counts command flags
	granularity string
	startTime   string
	endTime     string
	countsChart bool
	chartFormat string
)

// countsCmd represents the counts command
var countsCmd = &cobra.Command{
	Use:   "counts <query>",
	Short: "Count tweet volume for a query over time",
	Long: `Count how many tweets match a query, bucketed by minute, hour or day.

The full-archive counts endpoint does not return tweets, so this command needs
no pagination and collects nothing. It answers questions like "how big would
this collection be" before committing to a full search, and can render the
buckets as a bar chart for reports. Full-archive access requires an academic
research bearer token.`,
	Example: `  # Daily tweet volume for the last week
  xplore counts "climate change"

  # Hourly buckets inside an explicit window
  xplore counts "climate change" --granularity hour --start 2023-11-01T00:00:00Z --end 2023-11-02T00:00:00Z

  # Render the buckets as a bar chart next to the CSV exports
  xplore counts "climate change" --chart

  # Chart as PNG instead of the configured format
  xplore counts "climate change" --chart --chart-format png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCounts(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countsCmd)

	countsCmd.Flags().StringVar(&granularity, "granularity", "day", "bucket size (minute, hour, day)")
	countsCmd.Flags().StringVar(&startTime, "start", "", "oldest timestamp to count from (RFC 3339)")
	countsCmd.Flags().StringVar(&endTime, "end", "", "newest timestamp to count to (RFC 3339)")
	countsCmd.Flags().BoolVar(&countsChart, "chart", false, "render the buckets as a bar chart")
	countsCmd.Flags().StringVar(&chartFormat, "chart-format", "", "chart file format (svg, png)")
}

func runCounts(cmd *cobra.Command, args []string) {
	query := strings.TrimSpace(args[0])
	ui.PrintInfo("Query", query)

	if !twitter.IsValidGranularity(granularity) {
		ui.PrintError("Invalid granularity", fmt.Sprintf("%q is not one of minute, hour, day", granularity))
		os.Exit(1)
	}
	for _, ts := range []string{startTime, endTime} {
		if ts == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			ui.PrintError("Invalid timestamp", fmt.Sprintf("%q is not RFC 3339, expected e.g. 2023-11-01T00:00:00Z", ts))
			os.Exit(1)
		}
	}

	// Build flags map from command line
	flags := buildFlagMap()
	if chartFormat != "" {
		flags["chart-format"] = chartFormat
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	// Handle credentials
	resolveToken(cfg)

	c, err := collector.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize collector", err.Error())
		os.Exit(1)
	}

	logger.WithFields(map[string]interface{}{
		"query":       query,
		"granularity": granularity,
	}).Info("Requesting tweet counts")

	resp, err := c.Counts(context.Background(), twitter.CountsRequest{
		Query:       query,
		Granularity: granularity,
		StartTime:   startTime,
		EndTime:     endTime,
	})
	if err != nil {
		logger.WithError(err).Error("Counts request failed")
		ui.PrintError("COUNTS FAILED", err.Error())
		os.Exit(1)
	}

	if len(resp.Data) == 0 {
		ui.PrintWarning("No tweets matched the query in the requested window")
		return
	}

	// Bucket table
	fmt.Println()
	peak := 0
	for _, b := range resp.Data {
		if b.TweetCount > peak {
			peak = b.TweetCount
		}
	}
	for _, b := range resp.Data {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", b.TweetCount*30/peak)
		}
		fmt.Printf("  %-18s %8d  %s\n", chart.BucketLabel(b.Start, granularity), b.TweetCount, bar)
	}
	fmt.Println()
	ui.PrintSuccess(fmt.Sprintf("%d tweets across %d buckets", resp.Meta.TotalTweetCount, len(resp.Data)))

	if countsChart {
		format, err := chart.ParseFormat(cfg.Output.ChartFormat)
		if err != nil {
			ui.PrintError("Invalid chart format", err.Error())
			os.Exit(1)
		}

		store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
		if err != nil {
			ui.PrintError("Failed to prepare output directory", err.Error())
			os.Exit(1)
		}

		filename := "Tweet_Volume" + format.Extension()
		err = store.Write(filename, func(w io.Writer) error {
			return chart.RenderCounts(w, resp.Data, granularity, format)
		})
		if err != nil {
			ui.PrintError("Failed to render chart", err.Error())
			os.Exit(1)
		}
		fmt.Printf("Chart saved to %s\n", store.Path(filename))
	}
}
