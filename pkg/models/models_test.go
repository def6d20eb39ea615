package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURLsOrder(t *testing.T) {
	posts := []Post{
		{ImageURL: StringPtr("https://i.redd.it/a.jpg")},
		{GalleryImages: []string{"https://i.redd.it/b1.png", "https://i.redd.it/b2.png"}},
		{ImageURL: StringPtr("https://i.redd.it/c.gif"), GalleryImages: []string{"https://i.redd.it/c1.webp"}},
	}

	assert.Equal(t, []string{
		"https://i.redd.it/a.jpg",
		"https://i.redd.it/b1.png",
		"https://i.redd.it/b2.png",
		"https://i.redd.it/c.gif",
		"https://i.redd.it/c1.webp",
	}, ImageURLs(posts))

	assert.Empty(t, ImageURLs(nil))
}

func TestHasImages(t *testing.T) {
	assert.True(t, Post{ImageURL: StringPtr("x.png")}.HasImages())
	assert.True(t, Post{GalleryImages: []string{"x"}}.HasImages())
	assert.False(t, Post{GalleryImages: []string{}}.HasImages())
	assert.False(t, Post{}.HasImages())
}

func TestWithSubreddit(t *testing.T) {
	posts := WithSubreddit([]Post{{}, {}}, "EarthPorn")
	for _, p := range posts {
		assert.Equal(t, "EarthPorn", p.Subreddit)
	}
}

func TestFormatCreated(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "1970-01-01T00:00:00+00:00"},
		{1700000000, "2023-11-14T22:13:20+00:00"},
		{1700000000.25, "2023-11-14T22:13:20.250000+00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCreated(tt.in))
	}
}

func TestPostJSONKeys(t *testing.T) {
	p := Post{
		Title:      StringPtr("Sunset <over> the bay & café"),
		CreatedUTC: "2023-11-14T22:13:20+00:00",
		Permalink:  "https://www.reddit.com/r/pics/comments/x/",
		ImageURL:   StringPtr("https://i.redd.it/a.jpg"),
		Subreddit:  "pics",
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 7)
	assert.Nil(t, fields["author"])
	assert.Nil(t, fields["gallery_images"])
	assert.Equal(t, "https://i.redd.it/a.jpg", fields["image_url"])
}
