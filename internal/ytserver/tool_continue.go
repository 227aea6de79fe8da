package ytserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
)

func (t *tools) next(ctx context.Context, _ *mcp.CallToolRequest, in ContinueInput) (*mcp.CallToolResult, ContinueOutput, error) {
	handle := strings.TrimSpace(in.Continuation)
	if handle == "" {
		return nil, ContinueOutput{}, fmt.Errorf("continuation is required")
	}
	cont, err := youtube.DecodeContinuation(handle)
	if err != nil {
		return nil, ContinueOutput{}, err
	}

	cacheKey := engine.CacheKey("youtube_continue", handle)
	if out, ok := engine.CacheLoadJSON[ContinueOutput](ctx, cacheKey); ok {
		return nil, out, nil
	}

	var res *youtube.ContinueResult
	err = engine.TrackOperation(ctx, "youtube_continue", func(ctx context.Context) error {
		var err error
		res, err = t.yt.Continue(ctx, cont)
		return err
	})
	if err != nil {
		return nil, ContinueOutput{}, fmt.Errorf("youtube continue: %w", err)
	}

	out := ContinueOutput{Items: itemsOutput(res.Items)}
	if out.Continuation, err = encodeContinuation(res.Continuation); err != nil {
		return nil, ContinueOutput{}, err
	}
	engine.CacheStoreJSON(ctx, cacheKey, out)
	return nil, out, nil
}
