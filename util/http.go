package util

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type leveledSlog struct {
	inner *slog.Logger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l leveledSlog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

// re-writes HTTP client DEBUG to INFO level (this is where retry is logged)
func (l leveledSlog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

// RobustHTTPClient returns an HTTP client with general-purpose defaults
// around timeouts and retries. The returned client has the stdlib
// http.Client interface, but has Hashicorp retryablehttp logic internally:
// it retries on connection errors, 5xx status (except 501), and 429
// responses (respecting 'Retry-After'), logging intermediate failures at
// WARN level.
//
// Use this from one-shot jobs and CLI paths. The serving-path fetcher uses
// a plain client on purpose: its failure handling is stale-fallback, not
// retry.
func RobustHTTPClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{slog.Default()})
	client := retryClient.StandardClient()
	client.Timeout = 20 * time.Second
	return client
}
