package youtube

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytsr/internal/dump"
)

func itemIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case *Video:
			ids = append(ids, v.ID)
		case *Channel:
			ids = append(ids, "channel:"+v.ChannelID)
		case *Playlist:
			ids = append(ids, "playlist:"+v.PlaylistID)
		case *Shelf:
			ids = append(ids, "shelf:"+v.Title)
		case *Mix:
			ids = append(ids, "mix:"+v.Title)
		default:
			ids = append(ids, string(it.ItemType()))
		}
	}
	return ids
}

func refinementQueries(refs []Refinement) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Q)
	}
	return out
}

var page1IDs = []string{
	"vid01", "vid02", "vid03", "vid04", "vid05", "vid06",
	"channel:UC7c3Kb6jYCRj4JOHHZTxKsQ",
	"playlist:PL0lo9MOBetEHhfG9vJzVCTiDYcbhAiEqL",
	"shelf:Latest from GitHub",
	"mix:Mix - GitHub",
}

func TestSearch_LimitWithinFirstPage(t *testing.T) {
	f := githubFetcher(t)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"vid01", "vid02", "vid03", "vid04", "vid05"}, itemIDs(res.Items))
	assert.Nil(t, res.Continuation, "bounded searches never return a continuation")
	assert.Equal(t, 1, f.gets)
	assert.Zero(t, f.posts())

	assert.Equal(t, "githib", res.OriginalQuery)
	assert.Equal(t, "github", res.CorrectedQuery)
	assert.Equal(t, int64(123456), res.Results)
	assert.Equal(t, []string{"git hub", "github actions", "github copilot", "github tutorial"}, refinementQueries(res.Refinements))
	assert.Equal(t, "https://www.youtube.com/results?search_query=git+hub", res.Refinements[0].URL)
	assert.Equal(t, "https://www.youtube.com/results?search_query=github+actions", res.Refinements[1].URL)

	require.Len(t, res.ActiveFilters, 1)
	assert.Equal(t, "Relevance", res.ActiveFilters[0].Name)
	assert.True(t, res.ActiveFilters[0].Active)
	assert.Nil(t, res.ActiveFilters[0].URL)

	require.Len(t, f.getURLs, 1)
	assert.True(t, strings.HasPrefix(f.getURLs[0], "https://www.youtube.com/results?"), f.getURLs[0])
	assert.Contains(t, f.getURLs[0], "search_query=githib")
	assert.Contains(t, f.getURLs[0], "gl=US")
	assert.Contains(t, f.getURLs[0], "hl=en")
}

func TestSearch_FirstPageItems(t *testing.T) {
	res, err := newTestClient(githubFetcher(t)).Search(context.Background(), "githib", Options{Pages: 1})
	require.NoError(t, err)
	assert.Equal(t, page1IDs, itemIDs(res.Items))

	v := res.Items[0].(*Video)
	assert.Equal(t, "Video 1", v.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid01", v.URL)
	assert.Equal(t, "https://i.ytimg.com/vi/vid01/hq720.jpg", v.BestThumbnail.URL)
	require.NotNil(t, v.Author)
	assert.True(t, v.Author.Verified)
	assert.Equal(t, "https://www.youtube.com/@GitHub", v.Author.URL)

	ch := res.Items[6].(*Channel)
	require.NotNil(t, ch.Videos)
	assert.Equal(t, int64(1536), *ch.Videos)

	pl := res.Items[7].(*Playlist)
	assert.Equal(t, int64(12), pl.Length)

	shelf := res.Items[8].(*Shelf)
	assert.Equal(t, []string{"shelf01", "shelf02"}, itemIDs(shelf.Items))
}

func TestSearch_PagedModeReturnsContinuation(t *testing.T) {
	f := githubFetcher(t)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{Pages: 1})
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.Zero(t, f.posts())

	require.NotNil(t, res.Continuation)
	c := res.Continuation
	assert.Equal(t, "AIzaTestKey", c.APIKey)
	assert.Equal(t, "TOKEN_PAGE_2", c.Token)
	require.NotNil(t, c.Context)
	assert.Equal(t, "WEB", c.Context.Client.ClientName)
	assert.Equal(t, "2.20240101.00.00", c.Context.Client.ClientVersion)
	assert.Equal(t, "US", c.Context.Client.GL)
	assert.Equal(t, "en", c.Context.Client.HL)
	require.NotNil(t, c.Options)
	assert.Equal(t, Unlimited, c.Options.Limit)
	assert.Zero(t, c.Options.Pages)
}

func TestSearch_LimitSpansPages(t *testing.T) {
	f := githubFetcher(t)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{Limit: 12})
	require.NoError(t, err)

	ids := itemIDs(res.Items)
	require.Len(t, ids, 12)
	assert.Equal(t, page1IDs, ids[:10])
	assert.Equal(t, []string{"p2v01", "p2v02"}, ids[10:])
	assert.Nil(t, res.Continuation)
	require.Equal(t, 1, f.posts())

	assert.Equal(t, "https://www.youtube.com/youtubei/v1/search?key=AIzaTestKey&prettyPrint=false", f.postURLs[0])
	assert.Equal(t, "application/json", f.postHeaders[0].Get("Content-Type"))
	assert.Equal(t, "TOKEN_PAGE_2", f.postBodies[0].Continuation)
	assert.Equal(t, "2.20240101.00.00", f.postBodies[0].Context.Client.ClientVersion)

	// Side effects of the whole second page still apply.
	assert.Equal(t, "late suggestion", res.Refinements[0].Q)
}

func TestSearch_Unlimited(t *testing.T) {
	f := githubFetcher(t)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{Limit: Unlimited})
	require.NoError(t, err)

	assert.Len(t, res.Items, 18)
	assert.Equal(t, "p3v03", itemIDs(res.Items)[17])
	assert.Nil(t, res.Continuation)
	assert.Equal(t, 2, f.posts())
}

func TestSearch_DefaultLimit(t *testing.T) {
	f := githubFetcher(t)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{})
	require.NoError(t, err)
	// The fixture set is smaller than the default budget of 100.
	assert.Len(t, res.Items, 18)
	assert.Nil(t, res.Continuation)
}

func TestContinue_MatchesPagedSearch(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(githubFetcher(t))

	two, err := client.Search(ctx, "githib", Options{Pages: 2})
	require.NoError(t, err)
	require.Len(t, two.Items, 15)
	require.NotNil(t, two.Continuation)
	assert.Equal(t, "TOKEN_PAGE_3", two.Continuation.Token)

	one, err := client.Search(ctx, "githib", Options{Pages: 1})
	require.NoError(t, err)
	require.NotNil(t, one.Continuation)

	next, err := client.Continue(ctx, *one.Continuation)
	require.NoError(t, err)
	assert.Equal(t, two.Items[10:15], next.Items)
	require.NotNil(t, next.Continuation)
	assert.Equal(t, "TOKEN_PAGE_3", next.Continuation.Token)
	assert.Equal(t, one.Continuation.APIKey, next.Continuation.APIKey)

	last, err := client.Continue(ctx, *next.Continuation)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3v01", "p3v02", "p3v03"}, itemIDs(last.Items))
	assert.Nil(t, last.Continuation)
}

func TestContinue_ThroughEncodedHandle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(githubFetcher(t))

	res, err := client.Search(ctx, "githib", Options{Pages: 1, SafeSearch: true})
	require.NoError(t, err)
	require.NotNil(t, res.Continuation)

	handle, err := res.Continuation.Encode()
	require.NoError(t, err)
	cont, err := DecodeContinuation(handle)
	require.NoError(t, err)
	assert.Equal(t, *res.Continuation, cont)

	next, err := client.Continue(ctx, cont)
	require.NoError(t, err)
	assert.Len(t, next.Items, 5)
}

func TestSearch_PayloadMissing(t *testing.T) {
	f := &fakeFetcher{pages: []string{"<html>consent wall</html>"}}
	_, err := newTestClient(f).Search(context.Background(), "githib", Options{})
	require.ErrorIs(t, err, ErrUnableToLocatePayload)
	assert.Equal(t, 3, f.gets)

	f = &fakeFetcher{pages: []string{"<html></html>"}}
	_, err = newTestClient(f, WithPayloadRetries(5)).Search(context.Background(), "githib", Options{})
	require.ErrorIs(t, err, ErrUnableToLocatePayload)
	assert.Equal(t, 5, f.gets)
}

func TestSearch_PayloadRecovered(t *testing.T) {
	f := githubFetcher(t)
	f.pages = append([]string{"<html>try again</html>"}, f.pages...)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, 2, f.gets)
}

func TestSearch_TransportErrorIsNotRetried(t *testing.T) {
	boom := errors.New("connection reset")
	f := &fakeFetcher{getErr: boom}
	_, err := newTestClient(f).Search(context.Background(), "githib", Options{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.gets)
}

func TestSearch_UpstreamAlert(t *testing.T) {
	f := &fakeFetcher{pages: []string{fixture(t, "search_alert.html")}}
	_, err := newTestClient(f).Search(context.Background(), "githib", Options{})
	var up *UpstreamError
	require.True(t, errors.As(err, &up), "got %v", err)
	assert.Equal(t, "Something went wrong", up.Message)
}

func TestSearch_NoContents(t *testing.T) {
	f := &fakeFetcher{pages: []string{`{"estimatedResults":"0"}`}}
	res, err := newTestClient(f).Search(context.Background(), "nothing", Options{Pages: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.ActiveFilters)
	assert.Empty(t, res.Refinements)
	assert.Nil(t, res.Continuation)
}

func TestSearch_InvalidArguments(t *testing.T) {
	for _, q := range []string{"", "   ", "https://www.youtube.com/results?sp=EgIQAQ%253D%253D"} {
		f := &fakeFetcher{}
		_, err := newTestClient(f).Search(context.Background(), q, Options{})
		assert.ErrorIs(t, err, ErrInvalidArgument, "query %q", q)
		assert.Zero(t, f.gets, "no request for %q", q)
	}
}

func TestSearch_SafeSearch(t *testing.T) {
	f := githubFetcher(t)
	caller := http.Header{"X-Trace": {"1"}}
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{
		Limit:      12,
		SafeSearch: true,
		Request:    RequestOptions{Headers: caller},
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 12)

	assert.Equal(t, []string{safeSearchCookie}, f.getHeaders[0].Values("Cookie"))
	assert.Equal(t, "1", f.getHeaders[0].Get("X-Trace"))
	assert.Equal(t, []string{safeSearchCookie}, f.postHeaders[0].Values("Cookie"))
	assert.True(t, f.postBodies[0].Context.User.EnableSafetyMode)
	assert.Equal(t, http.Header{"X-Trace": {"1"}}, caller, "caller headers are not modified")
}

func TestSearch_LocaleOptions(t *testing.T) {
	f := githubFetcher(t)
	res, err := newTestClient(f).Search(context.Background(), "githib", Options{Pages: 1, GL: "DE", HL: "de", UTCOffsetMinutes: 60})
	require.NoError(t, err)
	assert.Contains(t, f.getURLs[0], "gl=DE")
	assert.Contains(t, f.getURLs[0], "hl=de")
	require.NotNil(t, res.Continuation)
	assert.Equal(t, "DE", res.Continuation.Context.Client.GL)
	assert.Equal(t, "de", res.Continuation.Context.Client.HL)
	assert.Equal(t, 60, res.Continuation.Context.Client.UTCOffsetMinutes)
}

func TestSearch_FilterURLLocaleReachesContinuations(t *testing.T) {
	f := githubFetcher(t)
	link := "https://www.youtube.com/results?search_query=githib&sp=EgIQAQ%253D%253D&gl=FR&hl=fr"
	res, err := newTestClient(f).Search(context.Background(), link, Options{Pages: 2})
	require.NoError(t, err)
	assert.Contains(t, f.getURLs[0], "gl=FR")
	assert.Contains(t, f.getURLs[0], "hl=fr")

	require.Len(t, f.postBodies, 1)
	assert.Equal(t, "FR", f.postBodies[0].Context.Client.GL)
	assert.Equal(t, "fr", f.postBodies[0].Context.Client.HL)
	require.NotNil(t, res.Continuation)
	assert.Equal(t, "fr", res.Continuation.Context.Client.HL)
}

func TestSearch_FilterURLAsQuery(t *testing.T) {
	ctx := context.Background()
	f := githubFetcher(t)
	client := newTestClient(f)

	groups, err := client.GetFilters(ctx, "github", Options{})
	require.NoError(t, err)
	upload, ok := groups.Get("Upload date")
	require.True(t, ok)
	lastHour, ok := upload.Filters.Get("Last hour")
	require.True(t, ok)
	require.NotNil(t, lastHour.URL)

	res, err := client.Search(ctx, *lastHour.URL, Options{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "github", res.OriginalQuery)
	u := f.getURLs[len(f.getURLs)-1]
	assert.Contains(t, u, "sp=EgIIAQ%253D%253D")
	assert.Contains(t, u, "search_query=github")
}

func TestSearch_RichGrid(t *testing.T) {
	f := &fakeFetcher{pages: []string{fixture(t, "search_rich.json")}}
	res, err := newTestClient(f).Search(context.Background(), "github", Options{Pages: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"rich01", "shelf:Shorts", "rich02"}, itemIDs(res.Items))
	shorts := res.Items[1].(*Shelf)
	require.Len(t, shorts.Items, 1)
	assert.Equal(t, "https://www.youtube.com/shorts/short01", shorts.Items[0].(*Short).URL)

	require.NotNil(t, res.Continuation)
	assert.Equal(t, "TOKEN_RICH", res.Continuation.Token)
	assert.NotEmpty(t, res.ActiveFilters, "lowercase submenu spelling is read")
}

func TestSearch_DumpsRejectedItems(t *testing.T) {
	dir := t.TempDir()
	sink, err := dump.NewDirSink(dir)
	require.NoError(t, err)

	res, err := newTestClient(githubFetcher(t), WithDumpSink(sink)).Search(context.Background(), "githib", Options{Pages: 1})
	require.NoError(t, err)
	assert.Len(t, res.Items, 10, "the unknown item is skipped, not fatal")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "fancyNewRenderer")
	assert.Contains(t, string(data), "githib")
}

func TestGetFilters(t *testing.T) {
	f := githubFetcher(t)
	groups, err := newTestClient(f).GetFilters(context.Background(), "github", Options{})
	require.NoError(t, err)
	assert.Zero(t, f.posts())

	var titles []string
	for _, g := range groups.Groups() {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"Upload date", "Sort by"}, titles)

	upload, _ := groups.Get("Upload date")
	assert.Nil(t, upload.Active)
	today, ok := upload.Filters.Get("Today")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/results?search_query=github&sp=EgIIAg%253D%253D", *today.URL)
	assert.Equal(t, "Search for Today", today.Description)

	sortBy, _ := groups.Get("Sort by")
	relevance, _ := sortBy.Filters.Get("Relevance")
	assert.Same(t, relevance, sortBy.Active)

	_, err = newTestClient(&fakeFetcher{}).GetFilters(context.Background(), " ", Options{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
