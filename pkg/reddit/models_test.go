package reddit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const galleryPage = `{
  "kind": "Listing",
  "data": {
    "after": "t3_next",
    "children": [
      {"kind": "t3", "data": {
        "id": "g1",
        "title": "Gallery",
        "author": "someone",
        "created_utc": 1700000000.0,
        "permalink": "/r/pics/comments/g1/gallery/",
        "url": "https://www.reddit.com/gallery/g1",
        "is_gallery": true,
        "media_metadata": {
          "zz": {"status": "valid", "s": {"u": "https://preview.redd.it/zz.jpg?width=1&amp;s=2", "x": 640, "y": 480}},
          "aa": {"status": "valid", "s": {"u": "https://preview.redd.it/aa.jpg"}},
          "mm": {"status": "failed"}
        }
      }},
      {"kind": "t3", "data": {"id": "p1", "title": null, "author": null, "url": null, "media_metadata": null}}
    ]
  }
}`

func TestDecodeListingKeepsGalleryOrder(t *testing.T) {
	listing, err := DecodeListing([]byte(galleryPage))
	require.NoError(t, err)
	require.Len(t, listing.Data.Children, 2)
	assert.Equal(t, "t3_next", listing.Data.NextCursor())

	gallery := listing.Data.Children[0].Data
	assert.True(t, gallery.IsGallery)
	assert.Equal(t, []string{"zz", "aa", "mm"}, gallery.MediaMetadata.Keys)
	require.NotNil(t, gallery.MediaMetadata.Items["zz"].Source)
	assert.Equal(t, "https://preview.redd.it/zz.jpg?width=1&amp;s=2", *gallery.MediaMetadata.Items["zz"].Source.URL)
	assert.Nil(t, gallery.MediaMetadata.Items["mm"].Source)

	var visited []string
	gallery.MediaMetadata.Each(func(id string, item MediaItem) {
		visited = append(visited, id)
	})
	assert.Equal(t, []string{"zz", "aa", "mm"}, visited)

	plain := listing.Data.Children[1].Data
	assert.Nil(t, plain.Title)
	assert.Nil(t, plain.URL)
	assert.Equal(t, 0, plain.MediaMetadata.Len())
}

func TestNextCursorNull(t *testing.T) {
	listing, err := DecodeListing([]byte(`{"data": {"children": [], "after": null}}`))
	require.NoError(t, err)
	assert.Equal(t, "", listing.Data.NextCursor())

	listing, err = DecodeListing([]byte(`{"data": {"children": []}}`))
	require.NoError(t, err)
	assert.Equal(t, "", listing.Data.NextCursor())
}

func TestMediaMetadataDuplicateKeys(t *testing.T) {
	var m MediaMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"a": {"status": "one"}, "b": {}, "a": {"status": "two"}}`), &m))
	assert.Equal(t, []string{"a", "b"}, m.Keys)
	assert.Equal(t, "two", m.Items["a"].Status)
}

func TestMediaMetadataMarshalRoundTrip(t *testing.T) {
	var m MediaMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"b": {"status": "valid"}, "a": {"status": "valid"}}`), &m))

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var back MediaMetadata
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, []string{"b", "a"}, back.Keys)
}

func TestDecodeListingInvalid(t *testing.T) {
	_, err := DecodeListing([]byte(`<html>blocked</html>`))
	assert.Error(t, err)
}
