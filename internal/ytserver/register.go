// Package ytserver exposes the YouTube search client as MCP tools.
package ytserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
)

// Searcher is the part of *youtube.Client the tools call.
type Searcher interface {
	Search(ctx context.Context, query string, opts youtube.Options) (*youtube.Result, error)
	GetFilters(ctx context.Context, query string, opts youtube.Options) (*youtube.FilterGroups, error)
	Continue(ctx context.Context, c youtube.Continuation) (*youtube.ContinueResult, error)
}

type tools struct {
	yt Searcher
}

// RegisterTools registers youtube_search, youtube_filters and
// youtube_continue on server.
func RegisterTools(server *mcp.Server, yt Searcher) {
	t := &tools{yt: yt}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_search",
		Description: "Search YouTube and return normalized results: videos, shorts, channels, playlists, mixes, movies, shows, shelves and information panels, plus refinements, active filters and the estimated result count. Set limit for a fixed number of items, or pages for paged mode, which returns a continuation handle for youtube_continue. The query may also be a filter URL from youtube_filters.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_filters",
		Description: "List the search filters YouTube offers for a query (upload date, type, duration, features, sort order). Each filter has a URL that can be passed back to youtube_search as the query; the applied filter of a group has no URL and is marked active.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.filters)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_continue",
		Description: "Fetch the next page of a paged youtube_search. Pass the continuation string returned by youtube_search or by a previous youtube_continue call. An empty continuation in the output means there are no more pages.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.next)
}
