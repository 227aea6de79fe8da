package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v5"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
)

const (
	continuationURL   = baseURL + "youtubei/v1/search"
	noUpstreamMessage = "* no message *"
)

// Result is the outcome of Search. Continuation is only set in paged mode
// (no item limit) when YouTube has more results.
type Result struct {
	OriginalQuery  string        `json:"originalQuery"`
	CorrectedQuery string        `json:"correctedQuery"`
	Results        int64         `json:"results"`
	ActiveFilters  []*Filter     `json:"activeFilters"`
	Refinements    []Refinement  `json:"refinements"`
	Items          []Item        `json:"items"`
	Continuation   *Continuation `json:"continuation"`
}

func (r *Result) apply(e Effects) {
	if len(e.Prepend) > 0 {
		r.Refinements = append(append([]Refinement(nil), e.Prepend...), r.Refinements...)
	}
	r.Refinements = append(r.Refinements, e.Append...)
	if e.CorrectedQuery != nil {
		r.CorrectedQuery = *e.CorrectedQuery
	}
}

// page is one batch of raw items plus the token for the next batch.
type page struct {
	raws  []json.RawMessage
	token string
}

type continuationItem struct {
	ContinuationEndpoint struct {
		ContinuationCommand struct {
			Token string `json:"token"`
		} `json:"continuationCommand"`
	} `json:"continuationEndpoint"`
}

type contentHolder struct {
	Content json.RawMessage `json:"content"`
}

// wrapperEntry is one element of a results list on either page kind.
type wrapperEntry struct {
	ItemSectionRenderer *struct {
		Contents []json.RawMessage `json:"contents"`
	} `json:"itemSectionRenderer"`
	RichItemRenderer         *contentHolder    `json:"richItemRenderer"`
	RichSectionRenderer      *contentHolder    `json:"richSectionRenderer"`
	ContinuationItemRenderer *continuationItem `json:"continuationItemRenderer"`
}

func (e wrapperEntry) token() string {
	if e.ContinuationItemRenderer == nil {
		return ""
	}
	return e.ContinuationItemRenderer.ContinuationEndpoint.ContinuationCommand.Token
}

type listRenderer struct {
	Contents []wrapperEntry `json:"contents"`
}

type initialPayload struct {
	Alerts []struct {
		AlertRenderer *struct {
			Type string `json:"type"`
			Text *Text  `json:"text"`
		} `json:"alertRenderer"`
	} `json:"alerts"`
	Contents *struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer *listRenderer `json:"sectionListRenderer"`
				RichGridRenderer    *listRenderer `json:"richGridRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
	EstimatedResults string   `json:"estimatedResults"`
	Refinements      []string `json:"refinements"`
}

// upstreamError reports alert blocks sent in place of results.
func (p *initialPayload) upstreamError() error {
	if p.Contents != nil {
		return nil
	}
	var msgs []string
	for _, a := range p.Alerts {
		if a.AlertRenderer != nil && a.AlertRenderer.Type == "ERROR" {
			msgs = append(msgs, a.AlertRenderer.Text.StringOr(noUpstreamMessage))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return &UpstreamError{Message: strings.Join(msgs, ", ")}
}

// firstPage picks the raw items out of either result layout. The list
// layout keeps the first item section; the grid layout flattens rich items.
func (p *initialPayload) firstPage() page {
	var pg page
	if p.Contents == nil {
		return pg
	}
	pc := p.Contents.TwoColumnSearchResultsRenderer.PrimaryContents
	switch {
	case pc.SectionListRenderer != nil:
		sectionSeen := false
		for _, e := range pc.SectionListRenderer.Contents {
			if e.ItemSectionRenderer != nil && !sectionSeen {
				pg.raws = e.ItemSectionRenderer.Contents
				sectionSeen = true
			}
			if pg.token == "" {
				pg.token = e.token()
			}
		}
	case pc.RichGridRenderer != nil:
		for _, e := range pc.RichGridRenderer.Contents {
			switch {
			case e.ContinuationItemRenderer != nil:
				if pg.token == "" {
					pg.token = e.token()
				}
			case e.RichItemRenderer != nil:
				pg.raws = append(pg.raws, e.RichItemRenderer.Content)
			case e.RichSectionRenderer != nil:
				pg.raws = append(pg.raws, e.RichSectionRenderer.Content)
			}
		}
	}
	return pg
}

// continuationPage collects items from every continuation command. The
// last continuation item seen supplies the next token.
func continuationPage(entries []wrapperEntry) page {
	var pg page
	for _, e := range entries {
		switch {
		case e.ItemSectionRenderer != nil:
			pg.raws = append(pg.raws, e.ItemSectionRenderer.Contents...)
		case e.RichItemRenderer != nil:
			pg.raws = append(pg.raws, e.RichItemRenderer.Content)
		case e.RichSectionRenderer != nil:
			pg.raws = append(pg.raws, e.RichSectionRenderer.Content)
		case e.ContinuationItemRenderer != nil:
			pg.token = e.token()
		}
	}
	return pg
}

type continuationResponse struct {
	OnResponseReceivedCommands []struct {
		AppendContinuationItemsAction *struct {
			ContinuationItems []wrapperEntry `json:"continuationItems"`
		} `json:"appendContinuationItemsAction"`
		ReloadContinuationItemsCommand *struct {
			ContinuationItems []wrapperEntry `json:"continuationItems"`
		} `json:"reloadContinuationItemsCommand"`
	} `json:"onResponseReceivedCommands"`
}

type continuationRequest struct {
	Context      RequestContext `json:"context"`
	Continuation string         `json:"continuation"`
}

var errPayloadMissing = errors.New("payload missing from page")

// fetchFirstPage GETs the results page until its payload parses, up to
// the configured number of tries. Transport errors are not retried here.
func (c *Client) fetchFirstPage(ctx context.Context, req searchRequest) (ParsedBody, error) {
	attempt := 0
	op := func() (ParsedBody, error) {
		attempt++
		body, err := c.fetcher.Get(ctx, req.url(), req.opts.Request.Headers)
		if err != nil {
			return ParsedBody{}, backoff.Permanent(fmt.Errorf("fetch results page: %w", err))
		}
		engine.IncrPageFetches()
		parsed := ParseBody(body, req.contextOptions())
		if parsed.InitialData == nil {
			engine.IncrPayloadRetries()
			slog.Debug("youtube: payload missing, retrying",
				slog.String("query", req.search),
				slog.Int("attempt", attempt))
			return ParsedBody{}, errPayloadMissing
		}
		return parsed, nil
	}
	parsed, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.payloadRetries)))
	if errors.Is(err, errPayloadMissing) {
		return ParsedBody{}, ErrUnableToLocatePayload
	}
	return parsed, err
}

// fetchContinuation POSTs a continuation token and returns the next page.
// A response without commands is an empty last page.
func (c *Client) fetchContinuation(ctx context.Context, apiKey, token string, rc RequestContext, headers http.Header) (page, error) {
	body, err := json.Marshal(continuationRequest{Context: rc, Continuation: token})
	if err != nil {
		return page{}, err
	}
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")

	u := continuationURL + "?key=" + url.QueryEscape(apiKey) + "&prettyPrint=false"
	text, err := c.fetcher.Post(ctx, u, h, body)
	if err != nil {
		return page{}, fmt.Errorf("fetch continuation: %w", err)
	}
	engine.IncrContinuationFetches()

	var resp continuationResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return page{}, fmt.Errorf("decode continuation: %w", err)
	}
	var entries []wrapperEntry
	for _, cmd := range resp.OnResponseReceivedCommands {
		switch {
		case cmd.AppendContinuationItemsAction != nil:
			entries = append(entries, cmd.AppendContinuationItemsAction.ContinuationItems...)
		case cmd.ReloadContinuationItemsCommand != nil:
			entries = append(entries, cmd.ReloadContinuationItemsCommand.ContinuationItems...)
		}
	}
	return continuationPage(entries), nil
}

// Search runs a query, or reuses a filter URL from GetFilters, and pages
// through results until the budget in opts is spent or YouTube runs out.
func (c *Client) Search(ctx context.Context, query string, opts Options) (*Result, error) {
	req, err := newSearchRequest(query, opts)
	if err != nil {
		return nil, err
	}
	engine.IncrSearchRequests()

	parsed, err := c.fetchFirstPage(ctx, req)
	if err != nil {
		return nil, err
	}
	var payload initialPayload
	if err := json.Unmarshal(parsed.InitialData, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if err := payload.upstreamError(); err != nil {
		return nil, err
	}

	res := &Result{
		OriginalQuery:  req.search,
		CorrectedQuery: req.search,
		Results:        parseEstimate(payload.EstimatedResults),
		Refinements:    []Refinement{},
		Items:          []Item{},
		ActiveFilters:  []*Filter{},
	}
	for _, q := range payload.Refinements {
		res.Refinements = append(res.Refinements, Refinement{
			Q:   q,
			URL: baseURL + "results?" + url.Values{"search_query": {q}}.Encode(),
		})
	}
	if groups, err := ParseFilters(parsed.InitialData); err == nil {
		if active := groups.ActiveFilters(); active != nil {
			res.ActiveFilters = active
		}
	} else {
		slog.Debug("youtube: no filter menu", slog.String("query", req.search), slog.Any("error", err))
	}

	b := req.budget()
	pg := payload.firstPage()
	pageNo := 1
	for {
		items, effects := c.classifyPage(ctx, pg.raws, req.search)
		items = b.take(items)
		b = b.spend(len(items))
		res.Items = append(res.Items, items...)
		res.apply(effects)
		slog.Debug("youtube: page done",
			slog.String("query", req.search),
			slog.Int("page", pageNo),
			slog.Int("items", len(items)),
			slog.Bool("more", pg.token != ""))

		if pg.token == "" || b.exhausted() {
			break
		}
		pg, err = c.fetchContinuation(ctx, parsed.APIKey, pg.token, parsed.Context, req.opts.Request.Headers)
		if err != nil {
			return nil, err
		}
		pageNo++
	}

	if !b.itemsBounded() && pg.token != "" {
		rc := parsed.Context
		o := req.opts
		o.Pages = b.pages
		res.Continuation = &Continuation{APIKey: parsed.APIKey, Token: pg.token, Context: &rc, Options: &o}
	}
	return res, nil
}

// GetFilters returns the filter menu for query. Each filter URL can be
// passed back to Search as the query.
func (c *Client) GetFilters(ctx context.Context, query string, opts Options) (*FilterGroups, error) {
	req, err := newSearchRequest(query, opts)
	if err != nil {
		return nil, err
	}
	engine.IncrFilterRequests()

	parsed, err := c.fetchFirstPage(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseFilters(parsed.InitialData)
}

func parseEstimate(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
