package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the XPlore toolkit
type Config struct {
	// Twitter API settings
	API APIConfig `yaml:"api" json:"api"`

	// Search and lookup settings
	Search SearchConfig `yaml:"search" json:"search"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds Twitter API connection settings
type APIConfig struct {
	BearerToken    string        `yaml:"bearer_token" json:"bearer_token"`
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// SearchConfig holds paginated search and bulk lookup settings
type SearchConfig struct {
	// MaxResults is the page size requested per search call (10 to 100)
	MaxResults int `yaml:"max_results" json:"max_results"`

	// MaxPages caps how many pages a single search will follow
	MaxPages int `yaml:"max_pages" json:"max_pages"`

	// LookupBatchSize caps IDs per bulk user lookup call (at most 100)
	LookupBatchSize int `yaml:"lookup_batch_size" json:"lookup_batch_size"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Client-side throttle: allowed requests per rolling window
	RequestsPerWindow int           `yaml:"requests_per_window" json:"requests_per_window"`
	Window            time.Duration `yaml:"window" json:"window"`

	// Cooldown slept after the API answers 429 before the single retry
	Cooldown time.Duration `yaml:"cooldown" json:"cooldown"`

	// RetryAttempts counts the initial try plus retries (2 = retry once)
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	OverwriteExisting bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
	ChartFormat       string `yaml:"chart_format" json:"chart_format"`
}

// AnalysisConfig holds local analysis settings
type AnalysisConfig struct {
	// Workers used for concurrent language detection
	Workers int `yaml:"workers" json:"workers"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled     bool `yaml:"enabled" json:"enabled"`
	OnComplete  bool `yaml:"on_complete" json:"on_complete"`
	OnError     bool `yaml:"on_error" json:"on_error"`
	OnRateLimit bool `yaml:"on_rate_limit" json:"on_rate_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.twitter.com",
			RequestTimeout: 30 * time.Second,
		},
		Search: SearchConfig{
			MaxResults:      100,
			MaxPages:        100,
			LookupBatchSize: 100,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: 450,
			Window:            15 * time.Minute,
			Cooldown:          901 * time.Second,
			RetryAttempts:     2,
		},
		Output: OutputConfig{
			BaseDirectory:     "./exports",
			OverwriteExisting: false,
			ChartFormat:       "svg",
		},
		Analysis: AnalysisConfig{
			Workers: 4,
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			OnComplete:  true,
			OnError:     true,
			OnRateLimit: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("XPLORE_BEARER_TOKEN"); token != "" {
		c.API.BearerToken = token
	}
	if baseURL := os.Getenv("XPLORE_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}

	if maxResults := os.Getenv("XPLORE_MAX_RESULTS"); maxResults != "" {
		var val int
		fmt.Sscanf(maxResults, "%d", &val)
		if val > 0 {
			c.Search.MaxResults = val
		}
	}
	if maxPages := os.Getenv("XPLORE_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Search.MaxPages = val
		}
	}

	if rpw := os.Getenv("XPLORE_REQUESTS_PER_WINDOW"); rpw != "" {
		var val int
		fmt.Sscanf(rpw, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerWindow = val
		}
	}
	if cooldown := os.Getenv("XPLORE_COOLDOWN"); cooldown != "" {
		if d, err := time.ParseDuration(cooldown); err == nil && d > 0 {
			c.RateLimit.Cooldown = d
		}
	}

	if outputDir := os.Getenv("XPLORE_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if chartFormat := os.Getenv("XPLORE_CHART_FORMAT"); chartFormat != "" {
		c.Output.ChartFormat = chartFormat
	}

	if workers := os.Getenv("XPLORE_ANALYSIS_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Analysis.Workers = val
		}
	}

	if notifEnabled := os.Getenv("XPLORE_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	if logLevel := os.Getenv("XPLORE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("XPLORE_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// SearchLocations returns the config file locations in order of precedence
func SearchLocations() []string {
	return []string{
		".xplore.yaml",
		".xplore.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "xplore", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "xplore", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".xplore.yaml"),
		filepath.Join(os.Getenv("HOME"), ".xplore.yml"),
	}
}

// FindConfigFile returns the first config file present in the standard
// search locations, or an empty string when none exists
func FindConfigFile() string {
	for _, loc := range SearchLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
//
// A bearer token is deliberately not required here: commands resolve
// credentials through the account manager at run time, so a config without a
// token is still valid.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.API.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Search.MaxResults < 10 || c.Search.MaxResults > 100 {
		errs = append(errs, errors.New("max results must be between 10 and 100"))
	}
	if c.Search.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if c.Search.LookupBatchSize <= 0 || c.Search.LookupBatchSize > 100 {
		errs = append(errs, errors.New("lookup batch size must be between 1 and 100"))
	}

	if c.RateLimit.RequestsPerWindow <= 0 {
		errs = append(errs, errors.New("requests per window must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit window must be positive"))
	}
	if c.RateLimit.Cooldown <= 0 {
		errs = append(errs, errors.New("rate limit cooldown must be positive"))
	}
	if c.RateLimit.RetryAttempts < 1 {
		errs = append(errs, errors.New("retry attempts must be at least 1"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	validChartFormats := map[string]bool{
		"svg": true, "png": true,
	}
	if !validChartFormats[strings.ToLower(c.Output.ChartFormat)] {
		errs = append(errs, errors.New("chart format must be svg or png"))
	}

	if c.Analysis.Workers <= 0 {
		errs = append(errs, errors.New("analysis workers must be positive"))
	}
	if c.Analysis.Workers > 32 {
		errs = append(errs, errors.New("analysis workers should not exceed 32"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validLogFormats := map[string]bool{
		"": true, "console": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["bearer-token"].(string); ok && token != "" {
		c.API.BearerToken = token
	}
	if maxResults, ok := flags["max-results"].(int); ok && maxResults > 0 {
		c.Search.MaxResults = maxResults
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages > 0 {
		c.Search.MaxPages = maxPages
	}
	if outputDir, ok := flags["output-dir"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if chartFormat, ok := flags["chart-format"].(string); ok && chartFormat != "" {
		c.Output.ChartFormat = chartFormat
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Analysis.Workers = workers
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xplore.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
