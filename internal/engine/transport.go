package engine

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	maxBodyBytes    = 16 << 20
	errSnippetBytes = 256
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	URL     string
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.Code, e.URL, e.Snippet)
}

// Transport performs the GET and POST requests of a search. It is safe for
// concurrent use.
type Transport struct {
	client       *http.Client
	browser      *BrowserClient
	limiter      *rate.Limiter
	extraCookies []string
}

// NewTransport builds a transport from cfg. The net/http client gets its
// own cookie jar so consent and visitor cookies persist between pages.
func NewTransport(c Config) (*Transport, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	client := newFetchClient(c.FetchTimeout)
	if c.HTTPClient != nil {
		cp := *c.HTTPClient
		client = &cp
	}
	client.Jar = jar

	t := &Transport{client: client, extraCookies: c.ExtraCookies}
	if c.UseBrowser {
		if c.BrowserClient == nil {
			slog.Warn("transport: browser mode requested without a browser client, using net/http")
		} else {
			t.browser = c.BrowserClient
		}
	}
	if c.RequestsPerSec > 0 {
		burst := c.Burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(c.RequestsPerSec), burst)
	}
	return t, nil
}

// newFetchClient creates an HTTP client with proper settings for scraping.
func newFetchClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// Get fetches url and returns the body text.
func (t *Transport) Get(ctx context.Context, url string, headers http.Header) (string, error) {
	return t.do(ctx, http.MethodGet, url, headers, nil)
}

// Post sends body to url and returns the response text.
func (t *Transport) Post(ctx context.Context, url string, headers http.Header, body []byte) (string, error) {
	return t.do(ctx, http.MethodPost, url, headers, body)
}

func (t *Transport) do(ctx context.Context, method, url string, headers http.Header, body []byte) (string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	var (
		text string
		err  error
	)
	if t.browser != nil {
		text, err = t.doBrowser(ctx, method, url, headers, body)
	} else {
		text, err = t.doHTTP(ctx, method, url, headers, body)
	}
	if err != nil {
		metrics.FetchErrors.Add(1)
		slog.Debug("transport: request failed", slog.String("method", method), slog.String("url", url), slog.Any("error", err))
	}
	return text, err
}

func (t *Transport) doHTTP(ctx context.Context, method, url string, headers http.Header, body []byte) (string, error) {
	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return nil, err
		}
		t.setHeaders(req.Header, headers)
		return t.client.Do(req)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, URL: url, Snippet: Truncate(string(data), errSnippetBytes)}
	}
	return string(data), nil
}

// doBrowser sends the request through the TLS-fingerprinted client. It has
// no retry of its own, so retryable statuses go through RetryDo here.
func (t *Transport) doBrowser(ctx context.Context, method, url string, headers http.Header, body []byte) (string, error) {
	h := ChromeHeaders()
	for k, v := range headers {
		h[strings.ToLower(k)] = strings.Join(v, "; ")
	}
	if cookie := t.cookieHeader(headers); cookie != "" {
		h["cookie"] = cookie
	}
	type reply struct {
		data   []byte
		status int
	}
	r, err := RetryDo(ctx, DefaultRetryConfig, func() (reply, error) {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		data, _, status, err := t.browser.Do(method, url, h, rd)
		if err != nil {
			return reply{}, err
		}
		if IsRetryableStatus(status) {
			return reply{}, &StatusError{Code: status, URL: url, Snippet: Truncate(string(data), errSnippetBytes)}
		}
		return reply{data: data, status: status}, nil
	})
	if err != nil {
		return "", err
	}
	if r.status < 200 || r.status > 299 {
		return "", &StatusError{Code: r.status, URL: url, Snippet: Truncate(string(r.data), errSnippetBytes)}
	}
	return string(r.data), nil
}

func (t *Transport) setHeaders(dst, src http.Header) {
	dst.Set("User-Agent", RandomUserAgent())
	dst.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	dst.Set("Accept-Language", "en-US,en;q=0.9")
	dst.Set("Accept-Encoding", "gzip")
	for k, v := range src {
		if strings.EqualFold(k, "Cookie") {
			continue
		}
		dst[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	if cookie := t.cookieHeader(src); cookie != "" {
		dst.Set("Cookie", cookie)
	}
}

// cookieHeader joins caller cookies with the configured extra cookies.
// Multiple Cookie header values are sent as a single "; "-separated line.
func (t *Transport) cookieHeader(h http.Header) string {
	parts := append([]string(nil), h.Values("Cookie")...)
	parts = append(parts, t.extraCookies...)
	return strings.Join(parts, "; ")
}

// readResponseBody reads the response body, handling gzip decompression if needed.
func readResponseBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}
