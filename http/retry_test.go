package http_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/officeai"
	officeaihttp "github.com/fwojciec/officeai/http"
	"github.com/fwojciec/officeai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetryFetcher_Fetch(t *testing.T) {
	t.Parallel()

	noDelay := officeaihttp.WithRetryDelays(time.Millisecond, time.Millisecond, time.Millisecond)
	noLimit := officeaihttp.WithHostRate(0)

	t.Run("returns content on first success", func(t *testing.T) {
		t.Parallel()

		var calls int
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				return "<html>ok</html>", nil
			},
		}

		html, err := officeaihttp.NewRetryFetcher(next, discardLogger(), noDelay, noLimit).Fetch(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls int
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				if calls < 3 {
					return "", officeai.Errorf(officeai.EUNAVAILABLE, "HTTP 503")
				}
				return "<html>ok</html>", nil
			},
		}

		html, err := officeaihttp.NewRetryFetcher(next, discardLogger(), noDelay, noLimit).Fetch(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after all retries", func(t *testing.T) {
		t.Parallel()

		var calls int
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				return "", errors.New("connection reset")
			},
		}

		_, err := officeaihttp.NewRetryFetcher(next, discardLogger(), noDelay, noLimit).Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		var calls int
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				return "", officeai.Errorf(officeai.ENOTFOUND, "HTTP 404")
			},
		}

		_, err := officeaihttp.NewRetryFetcher(next, discardLogger(), noDelay, noLimit).Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, officeai.ENOTFOUND, officeai.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls int
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				cancel()
				return "", errors.New("transient error")
			},
		}

		_, err := officeaihttp.NewRetryFetcher(next, discardLogger(), noLimit).Fetch(ctx, "https://example.com")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("limits requests to the same host", func(t *testing.T) {
		t.Parallel()

		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "ok", nil
			},
		}
		f := officeaihttp.NewRetryFetcher(next, discardLogger(), officeaihttp.WithHostRate(20))

		start := time.Now()
		for i := 0; i < 3; i++ {
			_, err := f.Fetch(context.Background(), "https://example.com/page")
			require.NoError(t, err)
		}

		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("closes the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		var closed bool
		next := &mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		require.NoError(t, officeaihttp.NewRetryFetcher(next, discardLogger()).Close())
		assert.True(t, closed)
	})
}
