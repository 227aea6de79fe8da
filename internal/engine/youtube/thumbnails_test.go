package youtube

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepThumbnails(t *testing.T) {
	in := []Thumbnail{
		{URL: "//i.ytimg.com/small.jpg", Width: 120, Height: 90},
		{URL: "https://i.ytimg.com/big.jpg", Width: 720, Height: 404},
		{URL: "/relative.jpg", Width: 120, Height: 91},
		{URL: "", Width: 480, Height: 360},
	}
	got := PrepThumbnails(in)

	want := []Thumbnail{
		{URL: "https://i.ytimg.com/big.jpg", Width: 720, Height: 404},
		{URL: "", Width: 480, Height: 360},
		{URL: "https://i.ytimg.com/small.jpg", Width: 120, Height: 90},
		{URL: "https://www.youtube.com/relative.jpg", Width: 120, Height: 91},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "//i.ytimg.com/small.jpg", in[0].URL, "input must not be modified")

	best := BestThumbnail(got)
	if assert.NotNil(t, best) {
		assert.Equal(t, 720, best.Width)
	}
	assert.Nil(t, BestThumbnail(nil))
	assert.Empty(t, PrepThumbnails(nil))
}

func TestResolveURL(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"/@GitHub":                "https://www.youtube.com/@GitHub",
		"watch?v=abc":             "https://www.youtube.com/watch?v=abc",
		"//yt3.ggpht.com/a":       "https://yt3.ggpht.com/a",
		"https://example.com/x?y": "https://example.com/x?y",
	}
	for in, want := range tests {
		if got := resolveURL(in); got != want {
			t.Errorf("resolveURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBadgeList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		verified bool
		tooltips []string
	}{
		{"verified", `[{"metadataBadgeRenderer":{"style":"BADGE_STYLE_TYPE_VERIFIED","tooltip":"Verified"}}]`, true, []string{"Verified"}},
		{"official artist", `[{"metadataBadgeRenderer":{"style":"BADGE_STYLE_TYPE_VERIFIED_ARTIST","tooltip":"Official Artist Channel"}}]`, true, []string{"Official Artist Channel"}},
		{"official marker anywhere", `[{"metadataBadgeRenderer":{"icon":{"iconType":"OFFICIAL_ARTIST_BADGE"}}}]`, true, []string{""}},
		{"plain badge", `[{"metadataBadgeRenderer":{"style":"BADGE_STYLE_TYPE_SIMPLE","label":"4K"}}]`, false, []string{""}},
		{"not an array", `{"weird":true}`, false, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b badgeList
			if err := json.Unmarshal([]byte(tt.raw), &b); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			assert.Equal(t, tt.verified, b.verified())
			assert.Equal(t, tt.tooltips, b.tooltips())
		})
	}
}
