package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Output modes accepted by the command line
const (
	ModePost             = "post"
	ModePostWithComments = "post_with_comments"
	ModeImageURL         = "image_url"
)

// Config holds all configuration options for the Reddit miner
type Config struct {
	// Listing endpoint and session settings
	Reddit RedditConfig `yaml:"reddit" json:"reddit"`

	// Where artifacts and images go
	Output OutputConfig `yaml:"output" json:"output"`

	// Bulk downloader settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RedditConfig holds listing-endpoint configuration
type RedditConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	CookieFile     string        `yaml:"cookie_file" json:"cookie_file"`
	PageSize       int           `yaml:"page_size" json:"page_size"`
	PageDelay      time.Duration `yaml:"page_delay" json:"page_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	ResultsDirectory string `yaml:"results_directory" json:"results_directory"`
	ImageDirectory   string `yaml:"image_directory" json:"image_directory"`
	Mode             string `yaml:"mode" json:"mode"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	MaxWorkers        int           `yaml:"max_workers" json:"max_workers"`
	DownloadTimeout   time.Duration `yaml:"download_timeout" json:"download_timeout"`
	RetryAttempts     int           `yaml:"retry_attempts" json:"retry_attempts"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Reddit: RedditConfig{
			BaseURL:        "https://www.reddit.com",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			CookieFile:     "cookies.txt",
			PageSize:       100,
			PageDelay:      time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			ResultsDirectory: "output",
			ImageDirectory:   "images",
			Mode:             ModePost,
		},
		Download: DownloadConfig{
			MaxWorkers:        8,
			DownloadTimeout:   30 * time.Second,
			RetryAttempts:     3,
			RequestsPerSecond: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if cookieFile := os.Getenv("REDDITMINER_COOKIE_FILE"); cookieFile != "" {
		c.Reddit.CookieFile = cookieFile
	}
	if userAgent := os.Getenv("REDDITMINER_USER_AGENT"); userAgent != "" {
		c.Reddit.UserAgent = userAgent
	}
	if baseURL := os.Getenv("REDDITMINER_BASE_URL"); baseURL != "" {
		c.Reddit.BaseURL = baseURL
	}

	if delay := os.Getenv("REDDITMINER_PAGE_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid REDDITMINER_PAGE_DELAY: %w", err)
		}
		c.Reddit.PageDelay = d
	}

	if resultsDir := os.Getenv("REDDITMINER_RESULTS_DIR"); resultsDir != "" {
		c.Output.ResultsDirectory = resultsDir
	}
	if imageDir := os.Getenv("REDDITMINER_IMAGE_DIR"); imageDir != "" {
		c.Output.ImageDirectory = imageDir
	}

	if workers := os.Getenv("REDDITMINER_MAX_WORKERS"); workers != "" {
		val, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid REDDITMINER_MAX_WORKERS: %w", err)
		}
		if val > 0 {
			c.Download.MaxWorkers = val
		}
	}

	if logLevel := os.Getenv("REDDITMINER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("REDDITMINER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
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

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".redditminer.yaml",
		".redditminer.yml",
		filepath.Join(home, ".config", "redditminer", "config.yaml"),
		filepath.Join(home, ".config", "redditminer", "config.yml"),
		filepath.Join(home, ".redditminer.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Reddit.BaseURL == "" {
		errs = append(errs, errors.New("reddit base URL is required"))
	}
	if c.Reddit.CookieFile == "" {
		errs = append(errs, errors.New("cookie file path is required"))
	}
	if c.Reddit.PageSize <= 0 || c.Reddit.PageSize > 100 {
		errs = append(errs, errors.New("page size must be between 1 and 100"))
	}
	if c.Reddit.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	if c.Reddit.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Output.ResultsDirectory == "" {
		errs = append(errs, errors.New("results directory is required"))
	}
	if c.Output.ImageDirectory == "" {
		errs = append(errs, errors.New("image directory is required"))
	}
	validModes := map[string]bool{
		ModePost: true, ModePostWithComments: true, ModeImageURL: true,
	}
	if !validModes[c.Output.Mode] {
		errs = append(errs, fmt.Errorf("invalid output mode %q", c.Output.Mode))
	}

	if c.Download.MaxWorkers <= 0 {
		errs = append(errs, errors.New("max workers must be positive"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.RetryAttempts < 1 {
		errs = append(errs, errors.New("retry attempts must be at least 1"))
	}
	if c.Download.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("requests per second must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
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

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if cookieFile, ok := flags["cookies"].(string); ok && cookieFile != "" {
		c.Reddit.CookieFile = cookieFile
	}
	if resultsDir, ok := flags["results-dir"].(string); ok && resultsDir != "" {
		c.Output.ResultsDirectory = resultsDir
	}
	if imageDir, ok := flags["output-dir"].(string); ok && imageDir != "" {
		c.Output.ImageDirectory = imageDir
	}
	if mode, ok := flags["output-mode"].(string); ok && mode != "" {
		c.Output.Mode = mode
	}
	if workers, ok := flags["max-workers"].(int); ok && workers > 0 {
		c.Download.MaxWorkers = workers
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
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".redditminer.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
