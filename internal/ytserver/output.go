package ytserver

import (
	"fmt"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
)

const maxDescriptionRunes = 300

// itemsOutput shortens long descriptions in place and widens the slice to
// []any for the tool output.
func itemsOutput(items []youtube.Item) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		shorten(it)
		out = append(out, it)
	}
	return out
}

func shorten(it youtube.Item) {
	switch v := it.(type) {
	case *youtube.Video:
		shortenPtr(v.Description)
	case *youtube.Channel:
		shortenPtr(v.DescriptionShort)
	case *youtube.Movie:
		shortenPtr(v.Description)
	case *youtube.Shelf:
		for _, nested := range v.Items {
			shorten(nested)
		}
	case *youtube.HorizontalChannelList:
		for _, ch := range v.Channels {
			for _, video := range ch.Videos {
				shortenPtr(video.Description)
			}
		}
	}
}

func shortenPtr(s *string) {
	if s != nil {
		*s = engine.TruncateRunes(*s, maxDescriptionRunes, "…")
	}
}

func encodeContinuation(c *youtube.Continuation) (string, error) {
	if c == nil {
		return "", nil
	}
	s, err := c.Encode()
	if err != nil {
		return "", fmt.Errorf("encode continuation: %w", err)
	}
	return s, nil
}
