package telegram

import (
	"net/http"
	"time"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/netutil"
)

// retryTransport retries idempotent Bot API calls on transient network
// failures. Telegram getUpdates long polls drop connections routinely,
// so a single retry removes most of the noise.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= t.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(t.backoff * time.Duration(attempt))
		}
		resp, err = t.base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		if req.Body != nil || !netutil.IsRetryableNetErr(err) {
			return resp, err
		}
		logger.Warn(req.Context(), logger.TG, "tg.http.retry",
			"attempt", attempt+1,
			"url", logger.Sanitize(req.URL.Path),
			"error", err,
		)
	}
	return resp, err
}

// NewHTTPClient builds the HTTP client used for Bot API calls.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 65 * time.Second,
		Transport: &retryTransport{
			base:    http.DefaultTransport,
			retries: 2,
			backoff: 500 * time.Millisecond,
		},
	}
}
