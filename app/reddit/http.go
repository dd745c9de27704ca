package reddit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// LeveledSlog adapts slog to retryablehttp. Intermediate failures are retried, so
// errors are logged as warnings.
type LeveledSlog struct {
	inner *slog.Logger
}

func (l LeveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

func (l LeveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

// NewHTTPClient returns a standard client that retries connection errors and 5xx
// responses with backoff. Only use it for idempotent requests.
func NewHTTPClient(timeout time.Duration, maxRetries int) *http.Client {
	retryClient := newRetryClient(maxRetries)
	retryClient.CheckRetry = RetryPolicy

	client := retryClient.StandardClient()
	client.Timeout = timeout
	return client
}

// NewSubmitHTTPClient returns a client that sends every request exactly once. A
// comment the platform created before a gateway error must not be posted again.
func NewSubmitHTTPClient(timeout time.Duration) *http.Client {
	retryClient := newRetryClient(0)
	retryClient.CheckRetry = NoRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := retryClient.StandardClient()
	client.Timeout = timeout
	return client
}

func newRetryClient(maxRetries int) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = maxRetries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(LeveledSlog{inner: slog.Default().With("subsystem", "reddit_http")})
	return retryClient
}

// RetryPolicy wraps retryablehttp.DefaultRetryPolicy. 429 is not retried: the
// platform's rate limit is surfaced to the caller as a failed request.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// NoRetryPolicy never retries and only reports context cancellation.
func NoRetryPolicy(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}
