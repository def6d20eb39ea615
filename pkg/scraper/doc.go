// Package scraper collects image posts from a subreddit listing.
//
// A Fetcher requests /r/<subreddit>/<sort>.json one page at a time, follows
// the "after" cursor, keeps only submissions with a direct image link or a
// gallery, and stops once the target count is reached or the feed runs dry.
// Consecutive requests are spaced by a fixed delay.
//
// Usage:
//
//	f, err := scraper.New(cfg) // loads cfg.Reddit.CookieFile
//	if err != nil {
//	    return err // configuration error
//	}
//	posts := f.Collect("EarthPorn", 50, "top")
//
// Collect never returns an error. Upstream failures shorten the result and are
// logged. Tests inject canned pages through NewWithFetcher.
package scraper
