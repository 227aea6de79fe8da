package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves first pages in order (the last one repeats) and
// continuation pages by token.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  []string
	conts  map[string]string
	getErr error

	gets        int
	getURLs     []string
	getHeaders  []http.Header
	postURLs    []string
	postHeaders []http.Header
	postBodies  []continuationRequest
}

func (f *fakeFetcher) Get(_ context.Context, url string, headers http.Header) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	f.getURLs = append(f.getURLs, url)
	f.getHeaders = append(f.getHeaders, headers.Clone())
	if f.getErr != nil {
		return "", f.getErr
	}
	i := f.gets - 1
	if i >= len(f.pages) {
		i = len(f.pages) - 1
	}
	return f.pages[i], nil
}

func (f *fakeFetcher) Post(_ context.Context, url string, headers http.Header, body []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var req continuationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	f.postURLs = append(f.postURLs, url)
	f.postHeaders = append(f.postHeaders, headers.Clone())
	f.postBodies = append(f.postBodies, req)
	page, ok := f.conts[req.Continuation]
	if !ok {
		return "", fmt.Errorf("unexpected continuation %q", req.Continuation)
	}
	return page, nil
}

func (f *fakeFetcher) posts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.postBodies)
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

// githubFetcher serves the three-page "githib" result set.
func githubFetcher(t *testing.T) *fakeFetcher {
	return &fakeFetcher{
		pages: []string{fixture(t, "search_page1.html")},
		conts: map[string]string{
			"TOKEN_PAGE_2": fixture(t, "search_page2.json"),
			"TOKEN_PAGE_3": fixture(t, "search_page3.json"),
		},
	}
}

func newTestClient(f Fetcher, opts ...Option) *Client {
	noWait := WithRetryBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })
	return NewClient(f, append([]Option{noWait}, opts...)...)
}
