package models

import "time"

type Post struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	CreatedUTC    string   `json:"created_utc"`
	Permalink     string   `json:"permalink"`
	ImageURL      *string  `json:"image_url"`
	GalleryImages []string `json:"gallery_images"`
	Subreddit     string   `json:"subreddit"`
}

// HasImages reports whether the post carries a direct image or a gallery
func (p Post) HasImages() bool {
	return p.ImageURL != nil || len(p.GalleryImages) > 0
}

// URLs returns image_url first, then every gallery image
func (p Post) URLs() []string {
	var urls []string
	if p.ImageURL != nil && *p.ImageURL != "" {
		urls = append(urls, *p.ImageURL)
	}
	return append(urls, p.GalleryImages...)
}

// ImageURLs flattens posts into a URL list in post order
func ImageURLs(posts []Post) []string {
	var urls []string
	for _, p := range posts {
		urls = append(urls, p.URLs()...)
	}
	return urls
}

// WithSubreddit stamps every post with the subreddit it came from
func WithSubreddit(posts []Post, subreddit string) []Post {
	for i := range posts {
		posts[i].Subreddit = subreddit
	}
	return posts
}

// FormatCreated renders a unix timestamp as ISO-8601 UTC with a +00:00 offset.
// Fractional seconds appear only when non-zero, with microsecond precision.
func FormatCreated(unix float64) string {
	sec := int64(unix)
	usec := int64((unix-float64(sec))*1e6 + 0.5)
	if usec >= 1e6 {
		sec++
		usec -= 1e6
	}
	t := time.Unix(sec, usec*int64(time.Microsecond)).UTC()
	if usec == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}

func StringPtr(s string) *string {
	return &s
}
