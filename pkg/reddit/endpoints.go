package reddit

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the origin for listings and permalinks
	BaseURL = "https://www.reddit.com"

	// MaxPageSize is the largest page the listing endpoint returns
	MaxPageSize = 100

	// DefaultSort is the listing order used when none is given
	DefaultSort = "new"
)

// ListingURL builds the JSON listing URL for a subreddit page. The sort
// order is passed through unchecked; the upstream decides what is valid.
func ListingURL(base, subreddit, sort, after string, limit int) string {
	if base == "" {
		base = BaseURL
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if sort == "" {
		sort = DefaultSort
	}

	u := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", strings.TrimRight(base, "/"), subreddit, sort, limit)
	if after != "" {
		u += "&after=" + url.QueryEscape(after)
	}
	return u
}

// PermalinkURL turns a relative permalink into an absolute one
func PermalinkURL(base, permalink string) string {
	if base == "" {
		base = BaseURL
	}
	return strings.TrimRight(base, "/") + permalink
}
