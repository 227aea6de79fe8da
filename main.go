// Command go_ytsr is a YouTube search MCP server.
//
// Exposes three MCP tools: youtube_search, youtube_filters, youtube_continue.
// Results are normalized from the page payload YouTube embeds in its search
// page and from its continuation API.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytsr/internal/dump"
	"github.com/anatolykoptev/go_ytsr/internal/engine"
	"github.com/anatolykoptev/go_ytsr/internal/engine/youtube"
	"github.com/anatolykoptev/go_ytsr/internal/ytserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	client, sink := initEngine()
	if sink != nil {
		defer sink.Close()
	}

	slog.Info("starting go_ytsr",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytsr",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server, client)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytsr",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() (*youtube.Client, dump.Sink) {
	c := engine.Config{
		GL:              env.Str("YT_GL", "US"),
		HL:              env.Str("YT_HL", "en"),
		FetchTimeout:    env.Duration("FETCH_TIMEOUT", 15*time.Second),
		RequestsPerSec:  env.Float("YT_RPS", 2),
		Burst:           env.Int("YT_BURST", 4),
		PayloadRetries:  env.Int("YT_PAYLOAD_RETRIES", 3),
		UseBrowser:      strings.EqualFold(env.Str("YT_USE_BROWSER", "false"), "true"),
		ExtraCookies:    env.List("YT_EXTRA_COOKIES", ""),
		CacheTTL:        env.Duration("CACHE_TTL", 15*time.Minute),
		CacheMaxEntries: env.Int("CACHE_MAX_ENTRIES", 1000),
	}

	if c.UseBrowser {
		var opts []stealth.ClientOption
		opts = append(opts, stealth.WithTimeout(15))

		if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
			pool, err := proxypool.NewWebshare(apiKey)
			if err != nil {
				slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
			} else {
				opts = append(opts, stealth.WithProxyPool(pool))
				slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
			}
		}

		bc, err := stealth.NewClient(opts...)
		if err != nil {
			slog.Error("stealth client init failed", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""), c.CacheTTL, c.CacheMaxEntries)

	transport, err := engine.NewTransport(c)
	if err != nil {
		slog.Error("transport init failed", slog.Any("error", err))
		os.Exit(1)
	}

	opts := []youtube.Option{youtube.WithPayloadRetries(c.PayloadRetries)}
	dsn := env.Str("DUMP_DSN", filepath.Join(os.TempDir(), "go_ytsr-dumps"))
	sink, err := dump.Open(context.Background(), dsn)
	if err != nil {
		slog.Warn("dump sink init failed, unknown items will not be saved", slog.Any("error", err))
	} else {
		opts = append(opts, youtube.WithDumpSink(sink))
		slog.Info("dump sink initialized", slog.String("dsn", redactDSN(dsn)))
	}

	return youtube.NewClient(transport, opts...), sink
}

// redactDSN hides credentials in database DSNs before logging.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return dsn
}
