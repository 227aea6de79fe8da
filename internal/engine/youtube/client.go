package youtube

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/anatolykoptev/go_ytsr/internal/dump"
	"github.com/anatolykoptev/go_ytsr/internal/engine"
)

// Fetcher is the transport a Client talks to YouTube through. Non-2xx
// responses must come back as errors carrying the status code.
type Fetcher interface {
	Get(ctx context.Context, url string, headers http.Header) (string, error)
	Post(ctx context.Context, url string, headers http.Header, body []byte) (string, error)
}

const defaultPayloadRetries = 3

// Client runs searches against one Fetcher. It holds no per-call state and
// is safe for concurrent use when the Fetcher is.
type Client struct {
	fetcher        Fetcher
	sink           dump.Sink
	payloadRetries int
	newBackOff     func() backoff.BackOff
}

type Option func(*Client)

// WithDumpSink captures every item the classifier rejects.
func WithDumpSink(s dump.Sink) Option {
	return func(c *Client) { c.sink = s }
}

// WithPayloadRetries sets how many times a first page is fetched before a
// missing payload is reported as ErrUnableToLocatePayload.
func WithPayloadRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.payloadRetries = n
		}
	}
}

// WithRetryBackOff replaces the delay policy between payload retries.
func WithRetryBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = f }
}

func NewClient(f Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:        f,
		payloadRetries: defaultPayloadRetries,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxInterval = 5 * time.Second
			return bo
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// classifySafe is Classify for page processing: a rejected item is logged,
// dumped and skipped instead of failing the page.
func (c *Client) classifySafe(ctx context.Context, raw json.RawMessage, query string) Outcome {
	out, err := Classify(raw)
	if err == nil {
		return out
	}
	engine.IncrUnknownRenderers()
	typ, _, _ := firstKey(raw)
	slog.Warn("youtube: skipping item",
		slog.String("renderer", typ),
		slog.String("query", query),
		slog.Any("error", err))
	c.writeDump(ctx, dump.NewRecord(typ, err.Error(), query, raw))
	return Outcome{}
}

func (c *Client) writeDump(ctx context.Context, rec dump.Record) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Write(ctx, rec); err != nil {
		engine.IncrDumpErrors()
		slog.Warn("youtube: dump failed", slog.String("id", rec.ID), slog.Any("error", err))
		return
	}
	engine.IncrDumpsWritten()
	slog.Debug("youtube: item dumped", slog.String("id", rec.ID), slog.String("renderer", rec.Renderer))
}

// classifyPage runs classifySafe over a page and drops empty outcomes.
func (c *Client) classifyPage(ctx context.Context, raws []json.RawMessage, query string) ([]Item, Effects) {
	items := make([]Item, 0, len(raws))
	var effects Effects
	for _, raw := range raws {
		out := c.classifySafe(ctx, raw, query)
		effects.merge(out.Effects)
		if out.Item != nil {
			items = append(items, out.Item)
		}
	}
	return items, effects
}
