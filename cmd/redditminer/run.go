package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redditminer/internal/downloader"
	"redditminer/pkg/config"
	"redditminer/pkg/logger"
	"redditminer/pkg/models"
	"redditminer/pkg/scraper"
	"redditminer/pkg/storage"
	"redditminer/pkg/ui"
)

// mineOptions carries the per-run flags that have no config file equivalent
type mineOptions struct {
	Subreddit      string
	Limit          int
	Sort           string
	DownloadImages bool
}

// Overridable in tests
var (
	now        = time.Now
	newFetcher = scraper.New
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runMine collects image posts and writes the artifact for the configured
// output mode. Only configuration problems and filesystem failures are
// returned; an upstream failure just shortens the result.
func runMine(ctx context.Context, cfg *config.Config, opts mineOptions) error {
	fetcher, err := newFetcher(cfg, scraper.WithProgress(func(collected int) {
		ui.PrintProgress(fmt.Sprintf("...found %d images so far...", collected))
	}))
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = scraper.DefaultLimit
	}
	sort := opts.Sort
	if sort == "" {
		sort = "new"
	}

	ui.PrintBanner(opts.Subreddit, sort, limit)

	posts := models.WithSubreddit(fetcher.Collect(opts.Subreddit, limit, sort), opts.Subreddit)

	results, err := storage.NewManager(cfg.Output.ResultsDirectory)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		ui.PrintWarning(fmt.Sprintf("No image posts found in r/%s", opts.Subreddit))
		return nil
	}

	if cfg.Output.Mode != config.ModeImageURL {
		if opts.DownloadImages {
			ui.PrintWarning("--download-images only applies to image_url mode, ignoring")
		}
		path, err := results.SavePostsJSON(opts.Subreddit, posts, now())
		if err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Success! Saved %d image entries to %s", len(posts), path))
		return nil
	}

	urls := models.ImageURLs(posts)
	path, err := results.SaveURLList(opts.Subreddit, urls, now())
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Success! Saved %d image URLs to %s", len(urls), path))

	if !opts.DownloadImages {
		return nil
	}
	return runDownload(ctx, cfg, path)
}

// runDownload fetches every URL in urlFile into the configured image directory
func runDownload(ctx context.Context, cfg *config.Config, urlFile string) error {
	ui.PrintInfo("Downloading images to", cfg.Output.ImageDirectory)

	summary, err := downloader.DownloadFromFile(urlFile, cfg.Output.ImageDirectory, cfg.Download.MaxWorkers, downloadOptions(ctx, cfg))
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func downloadOptions(ctx context.Context, cfg *config.Config) *downloader.Options {
	return &downloader.Options{
		Context:           ctx,
		RequestsPerSecond: cfg.Download.RequestsPerSecond,
		RetryAttempts:     cfg.Download.RetryAttempts,
		Timeout:           cfg.Download.DownloadTimeout,
		UserAgent:         cfg.Reddit.UserAgent,
		Logger:            logger.GetLogger(),
	}
}

func printSummary(s *downloader.Summary) {
	ui.PrintSuccess(fmt.Sprintf("Downloaded %d of %d images", s.Succeeded, s.Total))
	if s.Skipped > 0 {
		ui.PrintInfo("Skipped", fmt.Sprintf("%d (already present or repeated)", s.Skipped))
	}
	if s.Failed == 0 {
		return
	}
	ui.PrintWarning(fmt.Sprintf("%d downloads failed", s.Failed))
	for _, f := range s.Failures {
		ui.PrintProgress(fmt.Sprintf("%s: %v", f.URL, f.Err))
	}
}
