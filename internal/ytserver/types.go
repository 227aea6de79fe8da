package ytserver

import "github.com/anatolykoptev/go_ytsr/internal/engine/youtube"

// SearchInput is the input of youtube_search.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"Search text, or a filter URL returned by youtube_filters"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of items (default 100, -1 for all). Ignored when pages is set"`
	Pages      int    `json:"pages,omitempty" jsonschema:"Number of result pages to fetch. Enables paged mode with a continuation handle"`
	SafeSearch bool   `json:"safe_search,omitempty" jsonschema:"Hide restricted content"`
	GL         string `json:"gl,omitempty" jsonschema:"Region code, e.g. US, DE"`
	HL         string `json:"hl,omitempty" jsonschema:"Interface language, e.g. en, de"`
}

// SearchOutput is youtube.Result with the continuation encoded as a string.
// Items stay untyped so cached output decodes back without the item types.
type SearchOutput struct {
	OriginalQuery  string               `json:"original_query"`
	CorrectedQuery string               `json:"corrected_query"`
	Results        int64                `json:"results"`
	ActiveFilters  []*youtube.Filter    `json:"active_filters"`
	Refinements    []youtube.Refinement `json:"refinements"`
	Items          []any                `json:"items"`
	Continuation   string               `json:"continuation,omitempty"`
}

type FiltersInput struct {
	Query      string `json:"query" jsonschema:"Search text"`
	SafeSearch bool   `json:"safe_search,omitempty" jsonschema:"Hide restricted content"`
	GL         string `json:"gl,omitempty" jsonschema:"Region code, e.g. US, DE"`
	HL         string `json:"hl,omitempty" jsonschema:"Interface language, e.g. en, de"`
}

type FilterGroupOutput struct {
	Title   string            `json:"title"`
	Filters []*youtube.Filter `json:"filters"`
}

type FiltersOutput struct {
	Query  string              `json:"query"`
	Groups []FilterGroupOutput `json:"groups"`
}

type ContinueInput struct {
	Continuation string `json:"continuation" jsonschema:"Continuation string from youtube_search or youtube_continue"`
}

type ContinueOutput struct {
	Items        []any  `json:"items"`
	Continuation string `json:"continuation,omitempty"`
}
