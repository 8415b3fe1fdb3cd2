package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgsn-co/XPlore/pkg/analysis"
	"github.com/tgsn-co/XPlore/pkg/chart"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/spreadsheet"
	"github.com/tgsn-co/XPlore/pkg/storage"
	"github.com/tgsn-co/XPlore/pkg/ui"
)

var (
	// Languages command flags
	textColumn    string
	langWorkers   int
	languageChart bool
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages <spreadsheet.xlsx>",
	Short: "Split spreadsheet posts by detected language",
	Long: `Detect the language of every post in a spreadsheet column and report how
many posts were written in each language.

Detection runs entirely offline, so this command needs no API credentials.
Posts whose language cannot be determined are counted under "Unknown". The
split can be rendered as a bar chart for reports.`,
	Example: `  # Split the Tweet_Content column of an export
  xplore languages TweetsWith_stopthesteal.xlsx

  # Read posts from a differently named column
  xplore languages posts.xlsx --column text

  # Render the split as a bar chart next to the CSV exports
  xplore languages TweetsWith_stopthesteal.xlsx --chart

  # Use more detection workers on a big spreadsheet
  xplore languages TweetsWith_stopthesteal.xlsx --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runLanguages(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().StringVar(&textColumn, "column", "Tweet_Content", "spreadsheet column holding the post text")
	languagesCmd.Flags().IntVar(&langWorkers, "workers", 0, "concurrent detection workers (default from config)")
	languagesCmd.Flags().BoolVar(&languageChart, "chart", false, "render the split as a bar chart")
	languagesCmd.Flags().StringVar(&chartFormat, "chart-format", "", "chart file format (svg, png)")
}

func runLanguages(cmd *cobra.Command, args []string) {
	path := strings.TrimSpace(args[0])
	ui.PrintInfo("Input Spreadsheet", path)

	// Build flags map from command line
	flags := buildFlagMap()
	if langWorkers > 0 {
		flags["workers"] = langWorkers
	}
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

	// Detection is local, no credentials needed
	texts, err := spreadsheet.ReadColumn(path, textColumn)
	if err != nil {
		ui.PrintError("Failed to read spreadsheet", err.Error())
		os.Exit(1)
	}
	if len(texts) == 0 {
		ui.PrintError("No posts found", fmt.Sprintf("column %q is empty", textColumn))
		os.Exit(1)
	}
	ui.PrintInfo("Posts", fmt.Sprintf("%d read from column %q", len(texts), textColumn))

	logger.WithFields(map[string]interface{}{
		"spreadsheet": path,
		"posts":       len(texts),
		"workers":     cfg.Analysis.Workers,
	}).Info("Starting language split")

	counts := analysis.New(cfg.Analysis.Workers).SplitByLanguage(texts)

	// Language table
	fmt.Println()
	peak := 0
	for _, lc := range counts {
		if lc.Posts > peak {
			peak = lc.Posts
		}
	}
	for _, lc := range counts {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", lc.Posts*30/peak)
		}
		fmt.Printf("  %-14s %8d  %s\n", lc.Language, lc.Posts, bar)
	}
	fmt.Println()
	ui.PrintSuccess(fmt.Sprintf("%d posts across %d languages", len(texts), len(counts)))

	if languageChart {
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

		filename := "Filtered_Post_Vol" + format.Extension()
		err = store.Write(filename, func(w io.Writer) error {
			return chart.RenderLanguages(w, counts, format)
		})
		if err != nil {
			ui.PrintError("Failed to render chart", err.Error())
			os.Exit(1)
		}
		fmt.Printf("Chart saved to %s\n", store.Path(filename))
	}
}
