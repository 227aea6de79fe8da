package ytserver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
)

func (t *tools) search(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, SearchOutput{}, fmt.Errorf("query is required")
	}
	opts := youtube.Options{
		Limit:      in.Limit,
		Pages:      in.Pages,
		SafeSearch: in.SafeSearch,
		GL:         orDefault(in.GL, engine.Cfg.GL),
		HL:         orDefault(in.HL, engine.Cfg.HL),
	}

	cacheKey := engine.CacheKey("youtube_search", in.Query, strconv.Itoa(in.Limit), strconv.Itoa(in.Pages),
		strconv.FormatBool(in.SafeSearch), opts.GL, opts.HL)
	if out, ok := engine.CacheLoadJSON[SearchOutput](ctx, cacheKey); ok {
		return nil, out, nil
	}

	var res *youtube.Result
	err := engine.TrackOperation(ctx, "youtube_search", func(ctx context.Context) error {
		var err error
		res, err = t.yt.Search(ctx, in.Query, opts)
		return err
	})
	if err != nil {
		slog.Warn("youtube_search: failed", slog.String("query", in.Query), slog.Any("error", err))
		return nil, SearchOutput{}, fmt.Errorf("youtube search: %w", err)
	}

	out := SearchOutput{
		OriginalQuery:  res.OriginalQuery,
		CorrectedQuery: res.CorrectedQuery,
		Results:        res.Results,
		ActiveFilters:  res.ActiveFilters,
		Refinements:    res.Refinements,
		Items:          itemsOutput(res.Items),
	}
	if out.Continuation, err = encodeContinuation(res.Continuation); err != nil {
		return nil, SearchOutput{}, err
	}

	slog.Info("youtube_search: done",
		slog.String("query", in.Query),
		slog.Int("items", len(out.Items)),
		slog.Bool("more", out.Continuation != ""))
	engine.CacheStoreJSON(ctx, cacheKey, out)
	return nil, out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
