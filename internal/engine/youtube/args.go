package youtube

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Unlimited disables the item or page budget it is assigned to.
const Unlimited = -1

const (
	defaultLimit     = 100
	safeSearchCookie = "PREF=f2=8000000"
	resultsPath      = "/results"
)

// RequestOptions are passed through to the transport on every request.
type RequestOptions struct {
	Headers http.Header `json:"headers,omitempty"`
}

// Options configure a search. The zero value fetches up to 100 items.
//
// Setting Pages > 0 makes the item limit unbounded. Otherwise Limit is the
// budget: Unlimited fetches every page, a value <= 0 means 100.
type Options struct {
	Limit            int            `json:"limit"`
	Pages            int            `json:"pages"`
	SafeSearch       bool           `json:"safeSearch"`
	GL               string         `json:"gl,omitempty"`
	HL               string         `json:"hl,omitempty"`
	UTCOffsetMinutes int            `json:"utcOffsetMinutes,omitempty"`
	Request          RequestOptions `json:"requestOptions"`
}

// budget is the remaining item and page allowance of one search.
// Unlimited in either field means no bound.
type budget struct {
	items int
	pages int
}

// take returns the prefix of items the budget still allows.
func (b budget) take(items []Item) []Item {
	if b.items != Unlimited && len(items) > b.items {
		return items[:b.items]
	}
	return items
}

// spend returns the budget left after one page that kept n items.
func (b budget) spend(n int) budget {
	next := b
	if next.items != Unlimited {
		next.items -= n
	}
	if next.pages != Unlimited {
		next.pages--
	}
	return next
}

func (b budget) exhausted() bool {
	return (b.items != Unlimited && b.items < 1) || (b.pages != Unlimited && b.pages < 1)
}

func (b budget) itemsBounded() bool { return b.items != Unlimited }

// searchRequest is a validated, normalized search call.
type searchRequest struct {
	opts   Options
	query  url.Values
	search string
}

func (r searchRequest) url() string {
	return baseURL + strings.TrimPrefix(resultsPath, "/") + "?" + r.query.Encode()
}

// contextOptions uses the gl and hl the page is requested with, so
// continuations stay in the locale of the first page.
func (r searchRequest) contextOptions() ContextOptions {
	return ContextOptions{
		GL:               r.query.Get("gl"),
		HL:               r.query.Get("hl"),
		SafeSearch:       r.opts.SafeSearch,
		UTCOffsetMinutes: r.opts.UTCOffsetMinutes,
	}
}

func (r searchRequest) budget() budget {
	return budget{items: r.opts.Limit, pages: r.opts.Pages}
}

// normalizeOptions applies the limit/pages rules and copies the request
// headers so the caller's map is never touched.
func normalizeOptions(in Options) Options {
	o := in
	switch {
	case o.Pages > 0:
		o.Limit = Unlimited
	case o.Limit == Unlimited:
		o.Pages = Unlimited
	case o.Limit <= 0:
		o.Limit = defaultLimit
		o.Pages = Unlimited
	default:
		o.Pages = Unlimited
	}
	o.Request.Headers = in.Request.Headers.Clone()
	if o.SafeSearch {
		if o.Request.Headers == nil {
			o.Request.Headers = http.Header{}
		}
		o.Request.Headers.Add("Cookie", safeSearchCookie)
	}
	return o
}

// newSearchRequest validates query and builds the first-page request. A
// filter URL returned by GetFilters keeps all of its query parameters.
func newSearchRequest(query string, opts Options) (searchRequest, error) {
	if strings.TrimSpace(query) == "" {
		return searchRequest{}, fmt.Errorf("%w: search string is mandatory", ErrInvalidArgument)
	}
	values, err := queryValues(query)
	if err != nil {
		return searchRequest{}, err
	}
	if values.Get("gl") == "" {
		values.Set("gl", defaultGL)
	}
	if values.Get("hl") == "" {
		values.Set("hl", defaultHL)
	}
	if opts.GL != "" {
		values.Set("gl", opts.GL)
	}
	if opts.HL != "" {
		values.Set("hl", opts.HL)
	}
	return searchRequest{
		opts:   normalizeOptions(opts),
		query:  values,
		search: values.Get("search_query"),
	}, nil
}

func queryValues(query string) (url.Values, error) {
	if strings.HasPrefix(query, baseURL) {
		u, err := url.Parse(query)
		if err == nil && u.Path == resultsPath && u.Query().Has("sp") {
			values := u.Query()
			if values.Get("search_query") == "" {
				return nil, fmt.Errorf("%w: filter links have to include a search_query parameter", ErrInvalidArgument)
			}
			return values, nil
		}
	}
	return url.Values{"search_query": {query}}, nil
}
