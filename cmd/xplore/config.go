package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tgsn-co/XPlore/pkg/config"
	"github.com/tgsn-co/XPlore/pkg/ui"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage XPlore configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.xplore.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values

Sensitive values like the bearer token will be masked for security.`,
	Run: runConfigShow,
}

// pathCmd represents the config path command
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where configuration is looked for",
	Long: `Show the locations searched for a configuration file, in order, and
which one is currently in use.`,
	Run: runConfigPath,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(pathCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = ".xplore.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# XPlore Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with XPLORE_
# For example: XPLORE_BEARER_TOKEN, XPLORE_OUTPUT_DIR

# Twitter API connection
api:
  # API v2 bearer token (required)
  # Prefer 'xplore auth login' over writing the token here
  bearer_token: "YOUR_BEARER_TOKEN"

  # API base URL
  # Only change this for testing against a mock server
  base_url: "https://api.twitter.com"

  # Per-request timeout
  request_timeout: 30s

# Paginated search and bulk lookup
search:
  # Tweets requested per page
  # Range: 10-100
  max_results: 100

  # Page ceiling for a single collection
  max_pages: 100

  # Account IDs per bulk lookup request
  # Range: 1-100
  lookup_batch_size: 100

# Rate limiting configuration
rate_limit:
  # Client-side throttle: requests allowed per rolling window
  requests_per_window: 450
  window: 15m

  # Cooldown slept after the API answers 429 before the single retry
  # Slightly over the 15 minute window so the quota has fully reset
  cooldown: 901s

  # Attempts per request, counting the first try
  # 2 means one retry after a rate limit cooldown
  retry_attempts: 2

# Output configuration
output:
  # Directory CSV exports and charts land in
  base_directory: "./exports"

  # Overwrite exports from earlier runs
  overwrite_existing: true

  # Chart file format: svg, png
  chart_format: "svg"

# Local analysis
analysis:
  # Concurrent language detection workers
  workers: 4

# Desktop notifications
notifications:
  enabled: true
  on_complete: true
  on_error: true
  on_rate_limit: false

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log format: console, json
  format: "console"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store a bearer token with 'xplore auth login' (or edit the file)")
	fmt.Println("2. Run 'xplore config validate' to check the configuration")
	fmt.Println("3. Start collecting with 'xplore search <keyword>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Create a sanitized version for display
	displayCfg := *cfg

	// Mask sensitive values
	if displayCfg.API.BearerToken != "" {
		if len(displayCfg.API.BearerToken) > 8 {
			displayCfg.API.BearerToken = displayCfg.API.BearerToken[:4] + "..." + displayCfg.API.BearerToken[len(displayCfg.API.BearerToken)-4:]
		} else {
			displayCfg.API.BearerToken = "***"
		}
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (XPLORE_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else if found := config.FindConfigFile(); found != "" {
		fmt.Printf("3. Configuration file: %s\n", found)
	} else {
		fmt.Println("3. Configuration file: (none found)")
	}
	fmt.Println("4. Default values")
}

func runConfigPath(cmd *cobra.Command, args []string) {
	found := config.FindConfigFile()

	fmt.Println("Configuration file locations (in search order):")
	for _, path := range config.SearchLocations() {
		marker := " "
		if path == found {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, path)
	}
	fmt.Println()

	if configFile != "" {
		ui.PrintInfo("In use (--config)", configFile)
	} else if found != "" {
		ui.PrintInfo("In use", found)
	} else {
		ui.PrintWarning("No configuration file found, running on defaults")
		fmt.Println("Create one with 'xplore config init'")
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		configFile = config.FindConfigFile()
		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// Check credentials
	if cfg.API.BearerToken == "" || cfg.API.BearerToken == "YOUR_BEARER_TOKEN" {
		warnings = append(warnings, "bearer token not configured, store one with 'xplore auth login'")
	}

	// Check paths
	if cfg.Output.BaseDirectory != "" {
		if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}

	// Check logging file path
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	// Check values the loader accepts but that rarely make sense
	if cfg.RateLimit.Cooldown < 15*time.Minute {
		warnings = append(warnings, fmt.Sprintf("cooldown %s is shorter than the 15 minute rate limit window, a retry may hit 429 again", cfg.RateLimit.Cooldown))
	}
	if cfg.RateLimit.RetryAttempts > 2 {
		warnings = append(warnings, "more than one retry per request rarely helps, the quota resets once per window")
	}
	if cfg.Search.MaxPages > 450 {
		warnings = append(warnings, "max_pages above 450 will always run into the rate limit window")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Printf("  Page size: %d tweets\n", cfg.Search.MaxResults)
	fmt.Printf("  Page ceiling: %d\n", cfg.Search.MaxPages)
	fmt.Printf("  Rate limit: %d requests per %s\n", cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
	fmt.Printf("  Cooldown: %s\n", cfg.RateLimit.Cooldown)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
