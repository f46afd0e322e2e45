// Package http provides an HTTP-based implementation of officeai.Fetcher
// for pages the user points the assistant at.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/officeai"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 12 * time.Second

// MaxBodySize caps how much of a page is read.
const MaxBodySize = 5 << 20

// DefaultUserAgent identifies as a desktop browser; many help sites reject
// unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultAcceptLanguage prefers Spanish pages, then English.
const DefaultAcceptLanguage = "es-ES,es;q=0.9,en;q=0.8"

// Ensure Fetcher implements officeai.Fetcher at compile time.
var _ officeai.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// It does not execute JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	headers http.Header
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeader sets a request header, replacing any default value.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers.Set(key, value)
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		headers: http.Header{},
	}
	f.headers.Set("User-Agent", DefaultUserAgent)
	f.headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	f.headers.Set("Accept-Language", DefaultAcceptLanguage)
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, decoded to UTF-8.
// A missing page is ENOTFOUND; any other status than 200 is EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", officeai.Errorf(officeai.EINVALID, "invalid url %q: %v", url, err)
	}
	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return "", officeai.Errorf(officeai.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return "", officeai.Errorf(officeai.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
