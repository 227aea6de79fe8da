package ytserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
)

type fakeSearcher struct {
	searches  int
	filters   int
	continues int

	lastQuery string
	lastOpts  youtube.Options
	lastCont  youtube.Continuation

	result  *youtube.Result
	groups  *youtube.FilterGroups
	next    *youtube.ContinueResult
	failure error
}

func (f *fakeSearcher) Search(_ context.Context, query string, opts youtube.Options) (*youtube.Result, error) {
	f.searches++
	f.lastQuery, f.lastOpts = query, opts
	return f.result, f.failure
}

func (f *fakeSearcher) GetFilters(_ context.Context, query string, opts youtube.Options) (*youtube.FilterGroups, error) {
	f.filters++
	f.lastQuery, f.lastOpts = query, opts
	return f.groups, f.failure
}

func (f *fakeSearcher) Continue(_ context.Context, c youtube.Continuation) (*youtube.ContinueResult, error) {
	f.continues++
	f.lastCont = c
	return f.next, f.failure
}

func testContinuation(token string) *youtube.Continuation {
	return &youtube.Continuation{
		APIKey:  "key",
		Token:   token,
		Context: &youtube.RequestContext{Client: youtube.ClientInfo{ClientName: "WEB", GL: "US", HL: "en"}},
		Options: &youtube.Options{Limit: youtube.Unlimited},
	}
}

func setup(t *testing.T) {
	t.Helper()
	engine.Init(engine.Config{GL: "GB", HL: "en"})
	engine.InitCache("", time.Minute, 100)
}

func TestRegisterTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	assert.NotPanics(t, func() { RegisterTools(server, &fakeSearcher{}) })
}

func TestSearchTool(t *testing.T) {
	setup(t)
	long := strings.Repeat("word ", 200)
	f := &fakeSearcher{result: &youtube.Result{
		OriginalQuery:  "golang",
		CorrectedQuery: "golang",
		Results:        42,
		ActiveFilters:  []*youtube.Filter{},
		Refinements:    []youtube.Refinement{{Q: "golang tutorial"}},
		Items: []youtube.Item{
			&youtube.Video{Type: youtube.TypeVideo, ID: "v1", Description: &long},
			&youtube.Shelf{Type: youtube.TypeShelf, Title: "More", Items: []youtube.Item{&youtube.Video{Type: youtube.TypeVideo, ID: "v2"}}},
		},
		Continuation: testContinuation("NEXT"),
	}}
	tl := &tools{yt: f}

	_, out, err := tl.search(context.Background(), nil, SearchInput{Query: "golang", Pages: 1})
	require.NoError(t, err)
	assert.Equal(t, "golang", f.lastQuery)
	assert.Equal(t, 1, f.lastOpts.Pages)
	assert.Equal(t, "GB", f.lastOpts.GL, "region falls back to the configured default")
	assert.Equal(t, int64(42), out.Results)
	require.Len(t, out.Items, 2)

	v := out.Items[0].(*youtube.Video)
	assert.Less(t, len(*v.Description), len(long))
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(*v.Description, "…")))

	require.NotEmpty(t, out.Continuation)
	cont, err := youtube.DecodeContinuation(out.Continuation)
	require.NoError(t, err)
	assert.Equal(t, "NEXT", cont.Token)

	// Second call is served from cache and survives a JSON round trip.
	_, cached, err := tl.search(context.Background(), nil, SearchInput{Query: "golang", Pages: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, f.searches)
	assert.Equal(t, out.Continuation, cached.Continuation)
	require.Len(t, cached.Items, 2)
	data, err := json.Marshal(cached.Items[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"More"`)
}

func TestSearchTool_Errors(t *testing.T) {
	setup(t)
	f := &fakeSearcher{failure: youtube.ErrUnableToLocatePayload}
	tl := &tools{yt: f}

	_, _, err := tl.search(context.Background(), nil, SearchInput{Query: "  "})
	assert.Error(t, err)
	assert.Zero(t, f.searches)

	_, _, err = tl.search(context.Background(), nil, SearchInput{Query: "broken"})
	assert.ErrorIs(t, err, youtube.ErrUnableToLocatePayload)

	_, _, err = tl.search(context.Background(), nil, SearchInput{Query: "broken"})
	assert.Error(t, err)
	assert.Equal(t, 2, f.searches, "failures are not cached")
}

func TestFiltersTool(t *testing.T) {
	setup(t)
	initial := json.RawMessage(`{"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"subMenu":{"searchSubMenuRenderer":{"groups":[
		{"searchFilterGroupRenderer":{"title":{"simpleText":"Type"},"filters":[
			{"searchFilterRenderer":{"label":{"simpleText":"Video"},"navigationEndpoint":{"commandMetadata":{"webCommandMetadata":{"url":"/results?search_query=go&sp=EgIQAQ"}}}}},
			{"searchFilterRenderer":{"label":{"simpleText":"Channel"}}}
		]}}]}}}}}}}`)
	groups, err := youtube.ParseFilters(initial)
	require.NoError(t, err)
	f := &fakeSearcher{groups: groups}

	_, out, err := (&tools{yt: f}).filters(context.Background(), nil, FiltersInput{Query: "go", HL: "de"})
	require.NoError(t, err)
	assert.Equal(t, "de", f.lastOpts.HL)
	require.Len(t, out.Groups, 1)
	assert.Equal(t, "Type", out.Groups[0].Title)
	require.Len(t, out.Groups[0].Filters, 2)
	assert.Equal(t, "https://www.youtube.com/results?search_query=go&sp=EgIQAQ", *out.Groups[0].Filters[0].URL)
	assert.True(t, out.Groups[0].Filters[1].Active)

	_, _, err = (&tools{yt: f}).filters(context.Background(), nil, FiltersInput{})
	assert.Error(t, err)
}

func TestContinueTool(t *testing.T) {
	setup(t)
	f := &fakeSearcher{next: &youtube.ContinueResult{
		Items: []youtube.Item{&youtube.Video{Type: youtube.TypeVideo, ID: "p2"}},
	}}
	tl := &tools{yt: f}

	handle, err := testContinuation("PAGE2").Encode()
	require.NoError(t, err)

	_, out, err := tl.next(context.Background(), nil, ContinueInput{Continuation: handle})
	require.NoError(t, err)
	assert.Equal(t, "PAGE2", f.lastCont.Token)
	require.Len(t, out.Items, 1)
	assert.Empty(t, out.Continuation, "last page")

	_, _, err = tl.next(context.Background(), nil, ContinueInput{Continuation: "%%%"})
	assert.True(t, errors.Is(err, youtube.ErrInvalidContinuation))

	_, _, err = tl.next(context.Background(), nil, ContinueInput{})
	assert.Error(t, err)
	assert.Equal(t, 1, f.continues)
}
