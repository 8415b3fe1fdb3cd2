package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgsn-co/XPlore/pkg/collector"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/export"
	"github.com/tgsn-co/XPlore/pkg/logger"
	"github.com/tgsn-co/XPlore/pkg/spreadsheet"
	"github.com/tgsn-co/XPlore/pkg/storage"
	"github.com/tgsn-co/XPlore/pkg/ui"
)

var (
	// Users command flags
	idColumn    string
	usersOutput string
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users <spreadsheet.xlsx>",
	Short: "Resolve user profiles from a spreadsheet of account IDs",
	Long: `Read numeric account IDs from a spreadsheet column and resolve them into
full user profiles through the Twitter API.

IDs are looked up in batches of up to 100 per request. Accounts that have been
deleted or suspended since the spreadsheet was built are skipped silently, so
the export can hold fewer rows than the input column. The profiles land in a
fixed-schema CSV ready for analysis.`,
	Example: `  # Resolve the "id" column of a spreadsheet
  xplore users accounts.xlsx

  # Read IDs from a differently named column
  xplore users accounts.xlsx --column user_id

  # Write the profiles somewhere other than output.csv
  xplore users accounts.xlsx --output profiles.csv

  # Use a specific stored account
  xplore users accounts.xlsx --account research`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runUsers(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().StringVar(&idColumn, "column", "id", "spreadsheet column holding the account IDs")
	usersCmd.Flags().StringVar(&usersOutput, "output", export.DefaultUsersFilename, "filename for the profile CSV")
}

func runUsers(cmd *cobra.Command, args []string) {
	path := strings.TrimSpace(args[0])
	ui.PrintInfo("Input Spreadsheet", path)

	// Load configuration
	cfg, err := config.Load(configFile, buildFlagMap())
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

	// Read the ID column before touching the network
	ids, err := spreadsheet.ReadColumn(path, idColumn)
	if err != nil {
		ui.PrintError("Failed to read spreadsheet", err.Error())
		os.Exit(1)
	}
	if len(ids) == 0 {
		ui.PrintError("No account IDs found", fmt.Sprintf("column %q is empty", idColumn))
		os.Exit(1)
	}
	ui.PrintInfo("Account IDs", fmt.Sprintf("%d read from column %q", len(ids), idColumn))

	c, err := collector.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize collector", err.Error())
		os.Exit(1)
	}
	display := ui.NewCollectionDisplay(path, 0, verbose)
	c.SetProgress(display)

	logger.WithFields(map[string]interface{}{
		"spreadsheet": path,
		"ids":         len(ids),
	}).Info("Starting profile lookup")

	users, err := c.LookupProfiles(context.Background(), ids)
	if err != nil {
		logger.WithError(err).Error("Profile lookup failed")
		ui.PrintError("LOOKUP FAILED", err.Error())
		os.Exit(1)
	}

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.OverwriteExisting)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		os.Exit(1)
	}

	rows := export.BuildUserRows(users)
	err = store.Write(usersOutput, func(w io.Writer) error {
		return export.WriteUsers(w, rows)
	})
	if err != nil {
		ui.PrintError("Failed to write CSV export", err.Error())
		os.Exit(1)
	}

	logger.WithFields(map[string]interface{}{
		"requested": len(ids),
		"resolved":  len(users),
	}).Info("Profile lookup completed")

	ui.PrintSuccess(fmt.Sprintf("Resolved %d of %d profiles", len(users), len(ids)))
	if skipped := len(ids) - len(users); skipped > 0 {
		ui.PrintInfo("Skipped", fmt.Sprintf("%d deleted or suspended accounts", skipped))
	}
	fmt.Printf("Saved to %s\n", store.Path(usersOutput))
}
