package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tgsn-co/XPlore/pkg/auth"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	outputDir     string
	accountName   string
	noColor       bool
	notifications bool
	quiet         bool
	progressOnly  bool
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xplore",
	Short: "Collect and analyse tweets through the Twitter API",
	Long: `XPlore is a command-line toolkit for collecting tweets and user profiles
through the Twitter REST API and turning them into spreadsheets and charts.

Features:
  - Paginated keyword search with automatic rate limit cooldown
  - Mention and retweet tagging on every collected tweet
  - Bulk user profile lookup from spreadsheet ID columns
  - Fixed-schema CSV exports ready for analysis notebooks
  - Tweet volume counts and language split bar charts
  - Secure bearer token storage using the system keychain
  - Resume interrupted collections from a saved cursor

For more information and examples, visit: https://github.com/tgsn-co/XPlore`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Progress mode is default unless verbose is specified
		if !verbose && !quiet {
			progressOnly = true
		}

		// Set quiet mode if requested or log level is error
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		// Set progress-only mode
		if progressOnly {
			ui.SetProgressOnlyMode(true)
			// Also set log level to error to suppress logs
			logLevel = "error"
		}

		if noColor {
			ui.SetColorEnabled(false)
		}

		// Don't show logo for certain commands
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .xplore.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "directory exports are written to")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "enable desktop notifications")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&progressOnly, "progress", "p", false, "show only progress and essential info")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show all output (logo, logs, progress)")

	// Version template
	rootCmd.SetVersionTemplate(`XPlore {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// buildFlagMap collects the global flag overrides that config.Load merges on
// top of file and environment values
func buildFlagMap() map[string]interface{} {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output-dir"] = outputDir
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	return flags
}

// resolveToken fills cfg.API.BearerToken from the stored accounts unless the
// environment or config file already provided one. It exits the process when
// no credentials can be found.
func resolveToken(cfg *config.Config) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var account *auth.Account

	if accountName != "" {
		// Use specific account
		account, err = manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'xplore auth list' to see stored accounts")
			os.Exit(1)
		}
	} else if cfg.API.BearerToken != "" {
		// Token already supplied through config file or environment
		return
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			ui.PrintError("No Twitter API credentials found", "")
			fmt.Println("\nTo store a bearer token securely, run:")
			fmt.Println("  xplore auth login")
			fmt.Println("\nYou can also set an environment variable:")
			fmt.Println("  export XPLORE_BEARER_TOKEN=your_bearer_token")
			os.Exit(1)
		}
	}

	cfg.API.BearerToken = account.BearerToken
	ui.PrintInfo("Using account", account.Name)
}
