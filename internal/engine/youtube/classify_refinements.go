package youtube

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// didYouMeanRenderer suggests a corrected query; it becomes the first
// refinement of the result.
func parseDidYouMean(r *didYouMeanRenderer) (Outcome, error) {
	ref := Refinement{
		Q:   r.CorrectedQuery.String(),
		URL: resolveURL(r.CorrectedQueryEndpoint.webURL()),
	}
	if ref.URL == "" {
		ref.URL = baseURL + "results?" + url.Values{"search_query": {ref.Q}}.Encode()
	}
	return Outcome{Effects: Effects{Prepend: []Refinement{ref}}}, nil
}

// showingResultsForRenderer means YouTube searched for a corrected query
// instead of the original one.
func parseShowingResultsFor(r *showingResultsForRenderer) (Outcome, error) {
	return Outcome{Effects: Effects{CorrectedQuery: r.CorrectedQuery.Ptr()}}, nil
}

// horizontalCardListRenderer holds either refinement cards or channel
// previews; the first card decides which.
func parseHorizontalCardList(r *horizontalCardListRenderer) (Outcome, error) {
	if len(r.Cards) == 0 {
		return Outcome{}, missing("cards")
	}
	subType, _, err := firstKey(r.Cards[0])
	if err != nil {
		return Outcome{}, &MalformedItemError{Field: "cards", Err: err}
	}
	switch subType {
	case "searchRefinementCardRenderer":
		refs, err := refinementCards(r.Cards)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Effects: Effects{Append: refs}}, nil
	case "previewCardRenderer":
		list, err := channelPreviews(r)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Item: list}, nil
	}
	return Outcome{}, &UnknownRendererError{Type: subType, Parent: "horizontalCardListRenderer"}
}

func refinementCards(cards []json.RawMessage) ([]Refinement, error) {
	refs := make([]Refinement, 0, len(cards))
	for i, raw := range cards {
		var card struct {
			Renderer *searchRefinementCardRenderer `json:"searchRefinementCardRenderer"`
		}
		if err := json.Unmarshal(raw, &card); err != nil || card.Renderer == nil {
			return nil, &MalformedItemError{Field: fmt.Sprintf("cards[%d]", i), Err: err}
		}
		thumbs := PrepThumbnails(card.Renderer.Thumbnail.Thumbnails)
		refs = append(refs, Refinement{
			Q:             card.Renderer.Query.String(),
			URL:           resolveURL(card.Renderer.SearchEndpoint.webURL()),
			BestThumbnail: BestThumbnail(thumbs),
			Thumbnails:    thumbs,
		})
	}
	return refs, nil
}

func channelPreviews(r *horizontalCardListRenderer) (*HorizontalChannelList, error) {
	list := &HorizontalChannelList{
		Type:     TypeHorizontalChannelList,
		Channels: make([]ChannelPreview, 0, len(r.Cards)),
	}
	if r.Header != nil {
		list.Title = r.Header.RichListHeaderRenderer.Title.String()
	}
	for i, raw := range r.Cards {
		var card struct {
			Renderer *previewCardRenderer `json:"previewCardRenderer"`
		}
		if err := json.Unmarshal(raw, &card); err != nil || card.Renderer == nil {
			return nil, &MalformedItemError{Field: fmt.Sprintf("cards[%d]", i), Err: err}
		}
		preview, err := channelPreview(card.Renderer)
		if err != nil {
			return nil, err
		}
		list.Channels = append(list.Channels, preview)
	}
	return list, nil
}

func channelPreview(r *previewCardRenderer) (ChannelPreview, error) {
	h := r.Header.RichListHeaderRenderer
	avatars := PrepThumbnails(h.ChannelThumbnail.ChannelThumbnailWithLinkRenderer.Thumbnail.Thumbnails)
	var raws []json.RawMessage
	for _, c := range r.Contents {
		if c.RichItemRenderer != nil {
			raws = append(raws, c.RichItemRenderer.Content)
		}
	}
	items, _, err := classifyAll(raws)
	if err != nil {
		return ChannelPreview{}, err
	}
	videos := make([]*Video, 0, len(items))
	for _, it := range items {
		if v, ok := it.(*Video); ok {
			videos = append(videos, v)
		}
	}
	return ChannelPreview{
		Type:        TypeChannelPreview,
		Name:        h.Title.String(),
		ChannelID:   h.Endpoint.browseID(),
		URL:         resolveURL(h.Endpoint.browseURL()),
		BestAvatar:  BestThumbnail(avatars),
		Avatars:     avatars,
		Subscribers: h.Subtitle.String(),
		Videos:      videos,
	}, nil
}
