package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultMaxBodyBytes = 4 << 20
)

// HTTPFetcher fetches dataset bodies with GET requests against a base URL.
type HTTPFetcher struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
	maxBody int64
}

// NewHTTPFetcher creates a fetcher resolving paths against baseURL.
func NewHTTPFetcher(baseURL string, opts ...Option) (*HTTPFetcher, error) {
	const op = "fetch.new_http"

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, baseURL)
	}
	// Relative dataset paths resolve under the base path, not beside it.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	f := &HTTPFetcher{
		base:    base,
		timeout: defaultTimeout,
		maxBody: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f, nil
}

// Origin returns the base URL.
func (f *HTTPFetcher) Origin() string { return f.base.String() }

// Fetch GETs path relative to the base URL and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	const op = "fetch.http"

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: invalid path %q: %v", op, ErrTransport, path, err)
	}
	target := f.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBody))
		return nil, fmt.Errorf("%s: %w", op, &StatusError{Code: resp.StatusCode, URL: target})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read body: %v", op, ErrTransport, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%s: %w: body of %s exceeds %d bytes", op, ErrTransport, target, f.maxBody)
	}
	return body, nil
}
