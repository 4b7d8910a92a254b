package binance

import (
	"fmt"
	"time"
)

// RateLimitError is returned when the upstream answers HTTP 429.
// RetryAfter carries the server-supplied delay hint, or zero when the
// response had no Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by upstream, retry after %s", e.RetryAfter)
}

// UpstreamError is any other non-2xx response from the REST API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}
