package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"redditminer/pkg/config"
	errs "redditminer/pkg/errors"
	"redditminer/pkg/logger"
	"redditminer/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	cookieFile string
	outputDir  string
	maxWorkers int
	resultsDir string

	// Mining flags
	subreddit      string
	limit          int
	sortOrder      string
	outputMode     string
	downloadImages bool
)

// rootCmd mines a subreddit when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "redditminer",
	Short: "Collect image posts from a subreddit",
	Long: `redditminer walks a subreddit's JSON listing, keeps posts that link an image
or a gallery, and saves them under the results directory as
images_<subreddit>_<timestamp>.json (or .txt in image_url mode).

Requests carry the session cookies from a browser-exported Netscape cookie
file (cookies.txt by default). The run stops early if Reddit answers with an
error; whatever was collected so far is still saved.`,
	Example: `  # 100 newest image posts from r/EarthPorn
  redditminer --subreddit EarthPorn

  # Top 50 posts, URL list only, then download the images with 4 workers
  redditminer -s EarthPorn -l 50 --sort top --output-mode image_url --download-images --max-workers 4`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.ConfigureOutput(noColor)
		ui.SetQuietMode(quiet)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateOutputMode(outputMode)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return runMine(ctx, cfg, mineOptions{
			Subreddit:      subreddit,
			Limit:          limit,
			Sort:           sortOrder,
			DownloadImages: downloadImages,
		})
	},
}

// Execute runs the root command and exits with status 1 on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errs.IsConfigurationError(err) {
			logger.WithError(err).Error("Configuration error")
		}
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (default is ./.redditminer.yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	pf.StringVar(&cookieFile, "cookies", "cookies.txt", "Netscape format cookie file")
	pf.StringVar(&outputDir, "output-dir", "images", "directory for downloaded images")
	pf.IntVar(&maxWorkers, "max-workers", 8, "number of parallel downloads")

	f := rootCmd.Flags()
	f.StringVarP(&subreddit, "subreddit", "s", "", "subreddit to collect image posts from (required)")
	f.IntVarP(&limit, "limit", "l", 100, "number of image posts to collect")
	f.StringVar(&sortOrder, "sort", "new", "listing order (new, hot, top, rising, ...)")
	f.StringVar(&outputMode, "output-mode", config.ModePost, "output mode: post, post_with_comments, image_url")
	f.BoolVar(&downloadImages, "download-images", false, "download images after writing the URL list (image_url mode)")
	f.StringVar(&resultsDir, "results-dir", "output", "directory for the JSON/TXT results")
	_ = rootCmd.MarkFlagRequired("subreddit")

	rootCmd.SetVersionTemplate(`redditminer {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func validateOutputMode(mode string) error {
	switch mode {
	case config.ModePost, config.ModePostWithComments, config.ModeImageURL:
		return nil
	}
	return fmt.Errorf("invalid --output-mode %q (choose from %s, %s, %s)",
		mode, config.ModePost, config.ModePostWithComments, config.ModeImageURL)
}

// flagOverrides collects only the flags the user actually set, so values
// from the config file and environment are not masked by flag defaults.
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = value
		}
	}
	set("cookies", cookieFile)
	set("results-dir", resultsDir)
	set("output-dir", outputDir)
	set("output-mode", outputMode)
	set("max-workers", maxWorkers)
	set("log-level", logLevel)

	if _, ok := flags["log-level"]; !ok && quiet {
		flags["log-level"] = "error"
	}
	return flags
}

// loadConfig layers config file, environment and flags, then starts logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, flagOverrides(cmd))
	if err != nil {
		return nil, errs.NewConfigurationError("failed to load configuration", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, errs.NewConfigurationError("failed to initialize logger", err)
	}
	return cfg, nil
}
