package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests      atomic.Int64
	FilterRequests      atomic.Int64
	ContinueRequests    atomic.Int64
	PageFetches         atomic.Int64
	ContinuationFetches atomic.Int64
	PayloadRetries      atomic.Int64
	UnknownRenderers    atomic.Int64
	DumpsWritten        atomic.Int64
	DumpErrors          atomic.Int64
	FetchErrors         atomic.Int64
}

var metricKeys = []string{
	"search_requests", "filter_requests", "continue_requests",
	"page_fetches", "continuation_fetches", "payload_retries",
	"unknown_renderers", "dumps_written", "dump_errors",
	"fetch_errors",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":      metrics.SearchRequests.Load(),
		"filter_requests":      metrics.FilterRequests.Load(),
		"continue_requests":    metrics.ContinueRequests.Load(),
		"page_fetches":         metrics.PageFetches.Load(),
		"continuation_fetches": metrics.ContinuationFetches.Load(),
		"payload_retries":      metrics.PayloadRetries.Load(),
		"unknown_renderers":    metrics.UnknownRenderers.Load(),
		"dumps_written":        metrics.DumpsWritten.Load(),
		"dump_errors":          metrics.DumpErrors.Load(),
		"fetch_errors":         metrics.FetchErrors.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the youtube sub-package.
func IncrSearchRequests()      { metrics.SearchRequests.Add(1) }
func IncrFilterRequests()      { metrics.FilterRequests.Add(1) }
func IncrContinueRequests()    { metrics.ContinueRequests.Add(1) }
func IncrPageFetches()         { metrics.PageFetches.Add(1) }
func IncrContinuationFetches() { metrics.ContinuationFetches.Add(1) }
func IncrPayloadRetries()      { metrics.PayloadRetries.Add(1) }
func IncrUnknownRenderers()    { metrics.UnknownRenderers.Add(1) }
func IncrDumpsWritten()        { metrics.DumpsWritten.Add(1) }
func IncrDumpErrors()          { metrics.DumpErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
