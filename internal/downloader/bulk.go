package downloader

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"redditminer/pkg/logger"
	"redditminer/pkg/ratelimit"
	"redditminer/pkg/reddit"
	"redditminer/pkg/retry"
	"redditminer/pkg/storage"
)

// Options tune a bulk download. The zero value is usable.
type Options struct {
	Context           context.Context
	Client            ImageDownloader
	Limiter           ratelimit.Limiter
	RequestsPerSecond float64
	RetryAttempts     int
	Backoff           func(error) retry.BackoffStrategy
	Timeout           time.Duration
	UserAgent         string
	Logger            logger.Logger
	// OnResult is called from the collecting goroutine for every finished job
	OnResult func(DownloadResult)
}

// Failure records one URL that could not be downloaded
type Failure struct {
	URL      string
	Filename string
	Err      error
}

// Summary reports the outcome of a bulk download
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
}

// DownloadFromFile downloads every URL listed in urlFile into outputDir with
// up to maxWorkers concurrent fetches. Per-URL failures are reported in the
// Summary. Only an unreadable URL file or an output directory that cannot be
// created returns an error.
func DownloadFromFile(urlFile, outputDir string, maxWorkers int, opts *Options) (*Summary, error) {
	urls, err := ReadURLFile(urlFile)
	if err != nil {
		return nil, err
	}
	return Download(urls, outputDir, maxWorkers, opts)
}

// ReadURLFile reads newline-delimited URLs, trimming whitespace and skipping blank lines
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}

// Download fetches urls into outputDir
func Download(urls []string, outputDir string, maxWorkers int, opts *Options) (*Summary, error) {
	if opts == nil {
		opts = &Options{}
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	store, err := storage.NewManager(outputDir)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = reddit.NewClient(timeout, nil, opts.UserAgent, log)
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewTokenBucket(opts.RequestsPerSecond, maxWorkers)
	}

	pool := NewWorkerPool(opts.Context, maxWorkers, client, store, limiter, log)
	if opts.RetryAttempts > 0 || opts.Backoff != nil {
		attempts := opts.RetryAttempts
		if attempts <= 0 {
			attempts = 3
		}
		pool.SetRetryPolicy(attempts, opts.Backoff)
	}

	jobs, dupes := planJobs(urls)

	log.InfoWithFields("Starting bulk download", map[string]interface{}{
		"urls":       len(urls),
		"output_dir": outputDir,
		"workers":    maxWorkers,
	})

	pool.Start()

	rejected := make(chan DownloadJob, len(jobs))
	go func() {
		defer pool.Stop()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				rejected <- job
			}
		}
		close(rejected)
	}()

	summary := &Summary{Total: len(urls), Skipped: dupes}

	record := func(result DownloadResult) {
		switch {
		case result.Success:
			summary.Succeeded++
		case result.Skipped:
			summary.Skipped++
		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				URL:      result.Job.URL,
				Filename: result.Job.Filename,
				Err:      result.Error,
			})
		}
		logger.LogDownload(log, result.Job.URL, result.Job.Filename, result.Success, result.Error)
		if opts.OnResult != nil {
			opts.OnResult(result)
		}
	}

	for result := range pool.Results() {
		record(result)
	}
	for job := range rejected {
		record(DownloadResult{Job: job, Error: fmt.Errorf("download cancelled")})
	}

	log.InfoWithFields("Bulk download finished", map[string]interface{}{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	})

	return summary, nil
}

// planJobs assigns file names. Repeated URLs are dropped and counted as
// skipped; distinct URLs sharing a file name get a numeric suffix.
func planJobs(urls []string) ([]DownloadJob, int) {
	seenURL := make(map[string]bool, len(urls))
	usedName := make(map[string]bool, len(urls))
	jobs := make([]DownloadJob, 0, len(urls))
	dupes := 0

	for i, u := range urls {
		if seenURL[u] {
			dupes++
			continue
		}
		seenURL[u] = true

		name := FilenameFor(u, i+1)
		if usedName[name] {
			ext := path.Ext(name)
			name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), i+1, ext)
		}
		usedName[name] = true

		jobs = append(jobs, DownloadJob{Index: i + 1, URL: u, Filename: name})
	}
	return jobs, dupes
}

// FilenameFor derives a local file name from the last path segment of rawURL,
// ignoring the query string. n is used for image_<n>.jpg when the URL has no
// usable segment.
func FilenameFor(rawURL string, n int) string {
	fallback := fmt.Sprintf("image_%d.jpg", n)

	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}

	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" || base == ".." {
		return fallback
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
	return base
}
