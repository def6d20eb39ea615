package scraper

import (
	"net/http"
	"time"

	"redditminer/pkg/config"
	"redditminer/pkg/cookies"
	"redditminer/pkg/logger"
	"redditminer/pkg/models"
	"redditminer/pkg/reddit"
)

const (
	// DefaultLimit is the target post count when none is given
	DefaultLimit = 100

	// DefaultPageDelay paces consecutive listing requests
	DefaultPageDelay = time.Second
)

// Fetcher walks a subreddit listing page by page and keeps image posts
type Fetcher struct {
	pages    PageFetcher
	baseURL  string
	pageSize int
	delay    time.Duration
	sleep    func(time.Duration)
	progress func(collected int)
	logger   logger.Logger
}

// Option customises a Fetcher
type Option func(*Fetcher)

// WithBaseURL points the fetcher at another origin
func WithBaseURL(base string) Option {
	return func(f *Fetcher) { f.baseURL = base }
}

// WithPageSize sets the per-request listing size (1..100)
func WithPageSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 && n <= reddit.MaxPageSize {
			f.pageSize = n
		}
	}
}

// WithPageDelay sets the pause between listing requests
func WithPageDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.delay = d }
}

// WithSleep replaces time.Sleep, mainly for tests
func WithSleep(sleep func(time.Duration)) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

// WithProgress registers a callback invoked after every page that has a
// following page, with the number of posts collected so far.
func WithProgress(fn func(collected int)) Option {
	return func(f *Fetcher) { f.progress = fn }
}

// WithLogger overrides the global logger
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New builds a Fetcher from configuration. The cookie file is loaded here so
// a missing or malformed file fails before any request is made.
func New(cfg *config.Config, opts ...Option) (*Fetcher, error) {
	jar, err := cookies.LoadFile(cfg.Reddit.CookieFile)
	if err != nil {
		return nil, err
	}

	client := reddit.NewClient(cfg.Reddit.RequestTimeout, jar, cfg.Reddit.UserAgent, logger.GetLogger())

	base := []Option{
		WithBaseURL(cfg.Reddit.BaseURL),
		WithPageSize(cfg.Reddit.PageSize),
		WithPageDelay(cfg.Reddit.PageDelay),
	}
	return NewWithFetcher(client, append(base, opts...)...), nil
}

// NewWithFetcher builds a Fetcher around any PageFetcher
func NewWithFetcher(pages PageFetcher, opts ...Option) *Fetcher {
	f := &Fetcher{
		pages:    pages,
		baseURL:  reddit.BaseURL,
		pageSize: reddit.MaxPageSize,
		delay:    DefaultPageDelay,
		sleep:    time.Sleep,
		logger:   logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Collect gathers up to limit image posts from r/subreddit in feed order.
// It never fails: a request error, a non-200 status, an undecodable page, an
// empty page or a missing cursor all end the walk with what was collected.
func (f *Fetcher) Collect(subreddit string, limit int, sort string) []models.Post {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if sort == "" {
		sort = reddit.DefaultSort
	}

	log := f.logger.WithFields(map[string]interface{}{
		"subreddit": subreddit,
		"sort":      sort,
		"limit":     limit,
	})
	log.Info("Collecting image posts")

	var acc []models.Post
	after := ""

	for page := 1; len(acc) < limit; page++ {
		url := reddit.ListingURL(f.baseURL, subreddit, sort, after, f.pageSize)

		status, body, err := f.pages.FetchPage(url)
		if err != nil {
			log.WithError(err).WithField("page", page).Warn("Listing request failed, keeping partial results")
			break
		}
		if status != http.StatusOK {
			log.WithFields(map[string]interface{}{
				"page":   page,
				"status": status,
			}).Warn("Listing returned non-success status, keeping partial results")
			break
		}

		listing, err := reddit.DecodeListing(body)
		if err != nil {
			log.WithError(err).WithField("page", page).Warn("Listing page could not be decoded, keeping partial results")
			break
		}

		children := listing.Data.Children
		if len(children) == 0 {
			log.WithField("page", page).Debug("Feed exhausted")
			break
		}

		for _, child := range children {
			post, ok := ExtractPost(child.Data)
			if !ok {
				continue
			}
			acc = append(acc, post)
			if len(acc) >= limit {
				break
			}
		}

		after = listing.Data.NextCursor()
		log.DebugWithFields("Listing page processed", map[string]interface{}{
			"page":      page,
			"entries":   len(children),
			"collected": len(acc),
			"after":     after,
		})

		if after == "" {
			break
		}
		if f.progress != nil {
			f.progress(len(acc))
		}
		if len(acc) < limit {
			f.sleep(f.delay)
		}
	}

	if len(acc) > limit {
		acc = acc[:limit]
	}

	log.WithField("collected", len(acc)).Info("Collection finished")
	return acc
}
