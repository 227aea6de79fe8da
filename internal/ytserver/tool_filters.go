package ytserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
)

func (t *tools) filters(ctx context.Context, _ *mcp.CallToolRequest, in FiltersInput) (*mcp.CallToolResult, FiltersOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, FiltersOutput{}, fmt.Errorf("query is required")
	}
	opts := youtube.Options{
		SafeSearch: in.SafeSearch,
		GL:         orDefault(in.GL, engine.Cfg.GL),
		HL:         orDefault(in.HL, engine.Cfg.HL),
	}

	cacheKey := engine.CacheKey("youtube_filters", in.Query, strconv.FormatBool(in.SafeSearch), opts.GL, opts.HL)
	if out, ok := engine.CacheLoadJSON[FiltersOutput](ctx, cacheKey); ok {
		return nil, out, nil
	}

	var groups *youtube.FilterGroups
	err := engine.TrackOperation(ctx, "youtube_filters", func(ctx context.Context) error {
		var err error
		groups, err = t.yt.GetFilters(ctx, in.Query, opts)
		return err
	})
	if err != nil {
		return nil, FiltersOutput{}, fmt.Errorf("youtube filters: %w", err)
	}

	out := FiltersOutput{Query: in.Query, Groups: make([]FilterGroupOutput, 0, groups.Len())}
	for _, g := range groups.Groups() {
		fo := FilterGroupOutput{Title: g.Title, Filters: make([]*youtube.Filter, 0, g.Filters.Len())}
		for p := g.Filters.Oldest(); p != nil; p = p.Next() {
			fo.Filters = append(fo.Filters, p.Value)
		}
		out.Groups = append(out.Groups, fo)
	}
	engine.CacheStoreJSON(ctx, cacheKey, out)
	return nil, out, nil
}
