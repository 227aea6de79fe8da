package youtube

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Raw renderer shapes as found in ytInitialData and in continuation
// responses. Only the fields the mappings read are declared; everything is
// optional on the wire.

type navigationEndpoint struct {
	CommandMetadata struct {
		WebCommandMetadata struct {
			URL string `json:"url"`
		} `json:"webCommandMetadata"`
	} `json:"commandMetadata"`
	BrowseEndpoint *struct {
		BrowseID         string `json:"browseId"`
		CanonicalBaseURL string `json:"canonicalBaseUrl"`
	} `json:"browseEndpoint"`
	WatchEndpoint *struct {
		VideoID    string `json:"videoId"`
		PlaylistID string `json:"playlistId"`
	} `json:"watchEndpoint"`
	ReelWatchEndpoint *struct {
		VideoID string `json:"videoId"`
	} `json:"reelWatchEndpoint"`
	URLEndpoint *struct {
		URL string `json:"url"`
	} `json:"urlEndpoint"`
}

func (e *navigationEndpoint) webURL() string {
	if e == nil {
		return ""
	}
	return e.CommandMetadata.WebCommandMetadata.URL
}

// browseURL prefers the canonical channel path over the generic web URL.
func (e *navigationEndpoint) browseURL() string {
	if e == nil {
		return ""
	}
	if e.BrowseEndpoint != nil && e.BrowseEndpoint.CanonicalBaseURL != "" {
		return e.BrowseEndpoint.CanonicalBaseURL
	}
	return e.webURL()
}

func (e *navigationEndpoint) browseID() string {
	if e == nil || e.BrowseEndpoint == nil {
		return ""
	}
	return e.BrowseEndpoint.BrowseID
}

func (e *navigationEndpoint) watchVideoID() string {
	if e == nil || e.WatchEndpoint == nil {
		return ""
	}
	return e.WatchEndpoint.VideoID
}

type channelThumbnailSupport struct {
	ChannelThumbnailWithLinkRenderer struct {
		Thumbnail thumbnailList `json:"thumbnail"`
	} `json:"channelThumbnailWithLinkRenderer"`
}

// bylines is embedded by renderers whose owner comes from a byline text.
type bylines struct {
	ShortBylineText *Text     `json:"shortBylineText"`
	LongBylineText  *Text     `json:"longBylineText"`
	OwnerBadges     badgeList `json:"ownerBadges"`
}

func (b *bylines) ownerRun() *Run {
	if r := b.ShortBylineText.FirstRun(); r != nil {
		return r
	}
	return b.LongBylineText.FirstRun()
}

type videoRenderer struct {
	bylines
	VideoID                            string                   `json:"videoId"`
	Title                              *Text                    `json:"title"`
	Thumbnail                          thumbnailList            `json:"thumbnail"`
	Badges                             badgeList                `json:"badges"`
	OwnerText                          *Text                    `json:"ownerText"`
	ChannelThumbnailSupportedRenderers *channelThumbnailSupport `json:"channelThumbnailSupportedRenderers"`
	UpcomingEventData                  *struct {
		StartTime string `json:"startTime"`
	} `json:"upcomingEventData"`
	DescriptionSnippet       *Text `json:"descriptionSnippet"`
	DetailedMetadataSnippets []struct {
		SnippetText *Text `json:"snippetText"`
	} `json:"detailedMetadataSnippets"`
	ViewCountText     *Text `json:"viewCountText"`
	LengthText        *Text `json:"lengthText"`
	PublishedTimeText *Text `json:"publishedTimeText"`
	ThumbnailOverlays []struct {
		ThumbnailOverlayTimeStatusRenderer *struct {
			Text *Text `json:"text"`
		} `json:"thumbnailOverlayTimeStatusRenderer"`
	} `json:"thumbnailOverlays"`
}

type reelItemRenderer struct {
	bylines
	VideoID            string              `json:"videoId"`
	Headline           *Text               `json:"headline"`
	Thumbnail          thumbnailList       `json:"thumbnail"`
	ViewCountText      *Text               `json:"viewCountText"`
	PublishedTimeText  *Text               `json:"publishedTimeText"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
}

type channelRenderer struct {
	ChannelID           string              `json:"channelId"`
	Title               *Text               `json:"title"`
	NavigationEndpoint  *navigationEndpoint `json:"navigationEndpoint"`
	Thumbnail           thumbnailList       `json:"thumbnail"`
	OwnerBadges         badgeList           `json:"ownerBadges"`
	SubscriberCountText *Text               `json:"subscriberCountText"`
	DescriptionSnippet  *Text               `json:"descriptionSnippet"`
	VideoCountText      *Text               `json:"videoCountText"`
}

type childVideo struct {
	ChildVideoRenderer struct {
		Title              *Text               `json:"title"`
		LengthText         *Text               `json:"lengthText"`
		NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
	} `json:"childVideoRenderer"`
}

type playlistRenderer struct {
	bylines
	PlaylistID         string              `json:"playlistId"`
	Title              *Text               `json:"title"`
	Thumbnails         []thumbnailList     `json:"thumbnails"`
	Videos             []childVideo        `json:"videos"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
	PublishedTimeText  *Text               `json:"publishedTimeText"`
	VideoCount         string              `json:"videoCount"`
}

type radioRenderer struct {
	Title              *Text               `json:"title"`
	Thumbnail          thumbnailList       `json:"thumbnail"`
	Videos             []childVideo        `json:"videos"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
}

type gridMovieRenderer struct {
	Title              *Text               `json:"title"`
	VideoID            string              `json:"videoId"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
	Thumbnail          thumbnailList       `json:"thumbnail"`
	LengthText         *Text               `json:"lengthText"`
}

type movieRenderer struct {
	bylines
	Title               *Text               `json:"title"`
	VideoID             string              `json:"videoId"`
	NavigationEndpoint  *navigationEndpoint `json:"navigationEndpoint"`
	Thumbnail           thumbnailList       `json:"thumbnail"`
	DescriptionSnippet  *Text               `json:"descriptionSnippet"`
	TopMetadataItems    []Text              `json:"topMetadataItems"`
	BottomMetadataItems []Text              `json:"bottomMetadataItems"`
	LengthText          *Text               `json:"lengthText"`
}

type showRenderer struct {
	bylines
	Title             *Text `json:"title"`
	ThumbnailRenderer *struct {
		ShowCustomThumbnailRenderer struct {
			Thumbnail thumbnailList `json:"thumbnail"`
		} `json:"showCustomThumbnailRenderer"`
	} `json:"thumbnailRenderer"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
	ThumbnailOverlays  []struct {
		ThumbnailOverlayBottomPanelRenderer *struct {
			Text *Text `json:"text"`
		} `json:"thumbnailOverlayBottomPanelRenderer"`
	} `json:"thumbnailOverlays"`
}

type itemList struct {
	Items []json.RawMessage `json:"items"`
}

type shelfRenderer struct {
	Title   *Text `json:"title"`
	Content *struct {
		VerticalListRenderer        *itemList `json:"verticalListRenderer"`
		HorizontalMovieListRenderer *itemList `json:"horizontalMovieListRenderer"`
		HorizontalListRenderer      *itemList `json:"horizontalListRenderer"`
	} `json:"content"`
	Contents []richItem `json:"contents"`
}

type reelShelfRenderer struct {
	Title *Text             `json:"title"`
	Items []json.RawMessage `json:"items"`
}

type richItem struct {
	RichItemRenderer *struct {
		Content json.RawMessage `json:"content"`
	} `json:"richItemRenderer"`
}

type clarificationRenderer struct {
	ContentTitle      *Text               `json:"contentTitle"`
	Text              *Text               `json:"text"`
	Source            *Text               `json:"source"`
	Endpoint          *navigationEndpoint `json:"endpoint"`
	SecondarySource   *Text               `json:"secondarySource"`
	SecondaryEndpoint *navigationEndpoint `json:"secondaryEndpoint"`
}

type horizontalCardListRenderer struct {
	Header *struct {
		RichListHeaderRenderer struct {
			Title *Text `json:"title"`
		} `json:"richListHeaderRenderer"`
	} `json:"header"`
	Cards []json.RawMessage `json:"cards"`
}

type searchRefinementCardRenderer struct {
	Query          *Text               `json:"query"`
	SearchEndpoint *navigationEndpoint `json:"searchEndpoint"`
	Thumbnail      thumbnailList       `json:"thumbnail"`
}

type previewCardRenderer struct {
	Header struct {
		RichListHeaderRenderer struct {
			Title            *Text                   `json:"title"`
			Subtitle         *Text                   `json:"subtitle"`
			Endpoint         *navigationEndpoint     `json:"endpoint"`
			ChannelThumbnail channelThumbnailSupport `json:"channelThumbnail"`
		} `json:"richListHeaderRenderer"`
	} `json:"header"`
	Contents []richItem `json:"contents"`
}

type didYouMeanRenderer struct {
	CorrectedQuery         *Text               `json:"correctedQuery"`
	CorrectedQueryEndpoint *navigationEndpoint `json:"correctedQueryEndpoint"`
}

type showingResultsForRenderer struct {
	CorrectedQuery *Text `json:"correctedQuery"`
}

// firstKey splits a single-key object {"name": value} into its key and raw
// value. Only the first key in document order is considered.
func firstKey(raw json.RawMessage) (string, json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", nil, errors.New("item is not an object")
	}
	tok, err = dec.Token()
	if err != nil {
		return "", nil, err
	}
	key, ok := tok.(string)
	if !ok {
		// empty object
		return "", nil, nil
	}
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return key, nil, err
	}
	return key, value, nil
}
