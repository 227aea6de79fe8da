package youtube

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
)

const (
	baseURL      = "https://www.youtube.com/"
	baseVideoURL = "https://www.youtube.com/watch?v="
)

var base, _ = url.Parse(baseURL)

// resolveURL makes ref absolute against https://www.youtube.com/.
// Empty refs stay empty.
func resolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// Thumbnail is one image of a thumbnail set.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type thumbnailList struct {
	Thumbnails []Thumbnail `json:"thumbnails"`
}

// PrepThumbnails returns a copy of imgs with absolute URLs, widest first.
// Equal widths keep their source order.
func PrepThumbnails(imgs []Thumbnail) []Thumbnail {
	out := make([]Thumbnail, len(imgs))
	for i, img := range imgs {
		img.URL = resolveURL(img.URL)
		out[i] = img
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Width > out[j].Width })
	return out
}

// BestThumbnail returns the first image of a prepared set.
func BestThumbnail(prepared []Thumbnail) *Thumbnail {
	if len(prepared) == 0 {
		return nil
	}
	best := prepared[0]
	return &best
}

type metadataBadge struct {
	MetadataBadgeRenderer struct {
		Label   string `json:"label"`
		Tooltip string `json:"tooltip"`
		Style   string `json:"style"`
	} `json:"metadataBadgeRenderer"`
}

// badgeList keeps the raw bytes of a badge array next to the decoded
// entries; verification is decided on the raw form.
type badgeList struct {
	raw  json.RawMessage
	list []metadataBadge
}

func (b *badgeList) UnmarshalJSON(data []byte) error {
	b.raw = append(json.RawMessage(nil), data...)
	b.list = nil
	if err := json.Unmarshal(data, &b.list); err != nil {
		b.list = nil
	}
	return nil
}

func (b badgeList) verified() bool {
	return bytes.Contains(b.raw, []byte("OFFICIAL")) || bytes.Contains(b.raw, []byte("VERIFIED"))
}

func (b badgeList) tooltips() []string {
	out := make([]string, 0, len(b.list))
	for _, badge := range b.list {
		out = append(out, badge.MetadataBadgeRenderer.Tooltip)
	}
	return out
}

func (b badgeList) labels() []string {
	out := make([]string, 0, len(b.list))
	for _, badge := range b.list {
		out = append(out, badge.MetadataBadgeRenderer.Label)
	}
	return out
}
