package http

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/officeai"
	"golang.org/x/time/rate"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// DefaultHostRate is the number of requests per second allowed to one host.
const DefaultHostRate = 1.0

// Ensure RetryFetcher implements officeai.Fetcher at compile time.
var _ officeai.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher wraps a Fetcher with per-host rate limiting and retries
// transient failures with backoff. Invalid URLs and missing pages are not
// retried.
type RetryFetcher struct {
	next   officeai.Fetcher
	logger *slog.Logger
	delays []time.Duration
	rps    float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// RetryOption configures a RetryFetcher.
type RetryOption func(*RetryFetcher)

// WithRetryDelays sets the wait before each retry. An empty slice disables
// retries.
func WithRetryDelays(delays ...time.Duration) RetryOption {
	return func(f *RetryFetcher) {
		f.delays = delays
	}
}

// WithHostRate sets the per-host request rate. Zero or less disables
// limiting.
func WithHostRate(rps float64) RetryOption {
	return func(f *RetryFetcher) {
		f.rps = rps
	}
}

// NewRetryFetcher creates a new RetryFetcher.
func NewRetryFetcher(next officeai.Fetcher, logger *slog.Logger, opts ...RetryOption) *RetryFetcher {
	f := &RetryFetcher{
		next:     next,
		logger:   logger,
		delays:   DefaultRetryDelays(),
		rps:      DefaultHostRate,
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves rawURL, retrying up to len(delays) times.
func (f *RetryFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(f.delays); attempt++ {
		if attempt > 0 {
			f.logger.Info("retrying fetch", "url", rawURL, "attempt", attempt+1, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(f.delays[attempt-1]):
			}
		}

		if err := f.wait(ctx, rawURL); err != nil {
			return "", err
		}

		html, err := f.next.Fetch(ctx, rawURL)
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return "", lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}

// wait blocks until the host of rawURL may be requested again.
func (f *RetryFetcher) wait(ctx context.Context, rawURL string) error {
	if f.rps <= 0 {
		return nil
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}

	f.mu.Lock()
	limiter, ok := f.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(f.rps), 1)
		f.limiters[host] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

func retryable(err error) bool {
	switch officeai.ErrorCode(err) {
	case officeai.EINVALID, officeai.ENOTFOUND:
		return false
	}
	return true
}
