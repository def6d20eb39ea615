package reddit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Listing is the envelope returned by /r/<sub>/<sort>.json
type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

// ListingData holds one page of children and the cursor to the next page
type ListingData struct {
	Children []Child `json:"children"`
	After    *string `json:"after"`
}

// NextCursor returns the cursor for the following page, or "" when there is none
func (d ListingData) NextCursor() string {
	if d.After == nil {
		return ""
	}
	return *d.After
}

// Child wraps a single submission
type Child struct {
	Kind string   `json:"kind"`
	Data PostData `json:"data"`
}

// PostData is the subset of submission fields the miner reads
type PostData struct {
	ID            string        `json:"id"`
	Title         *string       `json:"title"`
	Author        *string       `json:"author"`
	CreatedUTC    float64       `json:"created_utc"`
	Permalink     string        `json:"permalink"`
	URL           *string       `json:"url"`
	IsGallery     bool          `json:"is_gallery"`
	MediaMetadata MediaMetadata `json:"media_metadata"`
}

// MediaItem is one gallery entry in media_metadata
type MediaItem struct {
	Status string       `json:"status"`
	Source *MediaSource `json:"s"`
}

// MediaSource is the source rendition of a gallery entry
type MediaSource struct {
	URL    *string `json:"u"`
	Width  int     `json:"x"`
	Height int     `json:"y"`
}

// MediaMetadata keeps gallery entries in the order they appear in the document
type MediaMetadata struct {
	Keys  []string
	Items map[string]MediaItem
}

// Len returns the number of gallery entries
func (m MediaMetadata) Len() int {
	return len(m.Keys)
}

// Each visits entries in document order
func (m MediaMetadata) Each(fn func(id string, item MediaItem)) {
	for _, k := range m.Keys {
		fn(k, m.Items[k])
	}
}

// UnmarshalJSON decodes the object key by key to preserve ordering. A null or
// non-object value decodes to an empty set. A repeated key keeps its first
// position and its last value.
func (m *MediaMetadata) UnmarshalJSON(data []byte) error {
	m.Keys = nil
	m.Items = nil

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}

	m.Items = make(map[string]MediaItem)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("media_metadata: unexpected key token %v", tok)
		}

		var item MediaItem
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("media_metadata[%s]: %w", key, err)
		}
		if _, seen := m.Items[key]; !seen {
			m.Keys = append(m.Keys, key)
		}
		m.Items[key] = item
	}

	_, err := dec.Token()
	return err
}

// MarshalJSON writes entries back in their original order
func (m MediaMetadata) MarshalJSON() ([]byte, error) {
	if m.Items == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeListing parses a listing page body
func DecodeListing(body []byte) (*Listing, error) {
	var listing Listing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}
