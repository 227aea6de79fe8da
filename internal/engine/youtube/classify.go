package youtube

import (
	"encoding/json"
	"fmt"
)

// Effects are the changes a side-channel renderer asks the page-level
// result to make. Classify never applies them itself.
type Effects struct {
	Prepend        []Refinement // insert before existing refinements, in order
	Append         []Refinement
	CorrectedQuery *string
}

func (e Effects) empty() bool {
	return len(e.Prepend) == 0 && len(e.Append) == 0 && e.CorrectedQuery == nil
}

// merge folds later effects into e. A later prepend goes in front of an
// earlier one, matching the order they would have been applied in.
func (e *Effects) merge(later Effects) {
	if len(later.Prepend) > 0 {
		e.Prepend = append(append([]Refinement(nil), later.Prepend...), e.Prepend...)
	}
	e.Append = append(e.Append, later.Append...)
	if later.CorrectedQuery != nil {
		e.CorrectedQuery = later.CorrectedQuery
	}
}

// Outcome is the result of classifying one raw item. Item is nil for
// renderers that produce no result entry.
type Outcome struct {
	Item    Item
	Effects Effects
}

// Renderers that never produce an item. Message renderers ("No results
// found", "No more results") are matched by type alone because their text
// is localized.
var ignoredRenderers = map[string]bool{
	"adSlotRenderer":                     true,
	"carouselAdRenderer":                 true,
	"searchPyvRenderer":                  true,
	"promotedVideoRenderer":              true,
	"promotedSparklesTextSearchRenderer": true,
	"promotedSparklesWebRenderer":        true,
	"compactPromotedItemRenderer":        true,
	"emergencyOneboxRenderer":            true,
	"chipCloudRenderer":                  true,
	"infoPanelContainerRenderer":         true,
	"continuationItemRenderer":           true,
	"backgroundPromoRenderer":            true,
	"messageRenderer":                    true,
}

// Classify maps one raw result item, a single-key object naming its
// renderer, to a normalized item. It does no I/O. Unknown renderer types
// fail with *UnknownRendererError; known renderers missing required fields
// fail with *MalformedItemError.
func Classify(raw json.RawMessage) (Outcome, error) {
	typ, body, err := firstKey(raw)
	if err != nil {
		return Outcome{}, &MalformedItemError{Type: typ, Field: "item", Err: err}
	}
	if typ == "" {
		return Outcome{}, &UnknownRendererError{Type: typ}
	}
	if ignoredRenderers[typ] {
		return Outcome{}, nil
	}

	switch typ {
	case "videoRenderer", "gridVideoRenderer":
		return decodeItem(typ, body, parseVideo)
	case "reelItemRenderer":
		return decodeItem(typ, body, parseShort)
	case "channelRenderer":
		return decodeItem(typ, body, parseChannel)
	case "playlistRenderer":
		return decodeItem(typ, body, parsePlaylist)
	case "radioRenderer":
		return decodeItem(typ, body, parseMix)
	case "gridMovieRenderer":
		return decodeItem(typ, body, parseGridMovie)
	case "movieRenderer":
		return decodeItem(typ, body, parseMovie)
	case "showRenderer":
		return decodeItem(typ, body, parseShow)
	case "clarificationRenderer":
		return decodeItem(typ, body, parseClarification)
	case "shelfRenderer":
		return decode(typ, body, parseShelf)
	case "reelShelfRenderer":
		return decode(typ, body, parseReelShelf)
	case "horizontalCardListRenderer":
		return decode(typ, body, parseHorizontalCardList)
	case "didYouMeanRenderer":
		return decode(typ, body, parseDidYouMean)
	case "showingResultsForRenderer":
		return decode(typ, body, parseShowingResultsFor)
	}
	return Outcome{}, &UnknownRendererError{Type: typ}
}

// decode unmarshals body into the renderer struct R and hands it to parse.
func decode[R any](typ string, body json.RawMessage, parse func(*R) (Outcome, error)) (Outcome, error) {
	var r R
	if err := json.Unmarshal(body, &r); err != nil {
		return Outcome{}, &MalformedItemError{Type: typ, Field: "body", Err: err}
	}
	out, err := parse(&r)
	if err != nil {
		if m, ok := err.(*MalformedItemError); ok && m.Type == "" {
			m.Type = typ
		}
		return Outcome{}, err
	}
	return out, nil
}

// decodeItem is decode for mappings that produce exactly one item.
func decodeItem[R any, I Item](typ string, body json.RawMessage, parse func(*R) (I, error)) (Outcome, error) {
	return decode(typ, body, func(r *R) (Outcome, error) {
		item, err := parse(r)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Item: item}, nil
	})
}

func missing(field string) error { return &MalformedItemError{Field: field} }

// classifyAll runs Classify over nested items, dropping empty outcomes and
// merging their effects. The first failure fails the whole list.
func classifyAll(raws []json.RawMessage) ([]Item, Effects, error) {
	items := make([]Item, 0, len(raws))
	var effects Effects
	for i, raw := range raws {
		out, err := Classify(raw)
		if err != nil {
			return nil, Effects{}, fmt.Errorf("nested item %d: %w", i, err)
		}
		effects.merge(out.Effects)
		if out.Item != nil {
			items = append(items, out.Item)
		}
	}
	return items, effects, nil
}
