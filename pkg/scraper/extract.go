package scraper

import (
	"strings"

	"redditminer/pkg/models"
	"redditminer/pkg/reddit"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageURL reports whether u ends in a recognised image extension
func IsImageURL(u string) bool {
	lower := strings.ToLower(u)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ExtractPost turns a submission into a Post. The bool is false when the
// submission has neither a direct image nor gallery images.
func ExtractPost(data reddit.PostData) (models.Post, bool) {
	post := models.Post{
		Title:      data.Title,
		Author:     data.Author,
		CreatedUTC: models.FormatCreated(data.CreatedUTC),
		Permalink:  reddit.PermalinkURL(reddit.BaseURL, data.Permalink),
	}

	if data.URL != nil && IsImageURL(*data.URL) {
		post.ImageURL = models.StringPtr(*data.URL)
	}

	if data.IsGallery {
		post.GalleryImages = galleryImages(data.MediaMetadata)
	}

	return post, post.HasImages()
}

// galleryImages takes the source rendition of each entry in document order.
// Entries without a source URL are skipped; nil is returned when none remain.
func galleryImages(meta reddit.MediaMetadata) []string {
	var urls []string
	meta.Each(func(_ string, item reddit.MediaItem) {
		if item.Source == nil || item.Source.URL == nil {
			return
		}
		urls = append(urls, strings.ReplaceAll(*item.Source.URL, "&amp;", "&"))
	})
	return urls
}
