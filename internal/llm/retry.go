package llm

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"time"
)

// retryConfig controls the transport retry policy. Retry is limited to
// transient failures: connection/DNS errors, timeouts and retryable HTTP
// statuses. Malformed requests and schema problems are terminal.
type retryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultRetryConfig = retryConfig{
	MaxAttempts: 3,
	InitialWait: 2 * time.Second,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// httpStatusError wraps a retryable HTTP status code.
type httpStatusError struct {
	StatusCode int
	Message    string
}

func (e *httpStatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// doWithRetry runs fn up to MaxAttempts times with exponential backoff,
// retrying only transient errors.
func doWithRetry(ctx context.Context, rc retryConfig, fn func() (string, *usage, error)) (string, *usage, error) {
	var lastErr error

	for attempt := 0; attempt < rc.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}

		content, u, err := fn()
		if err == nil {
			return content, u, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return "", nil, err
		}

		if attempt < rc.MaxAttempts-1 {
			wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
			if wait > rc.MaxWait {
				wait = rc.MaxWait
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", nil, ctx.Err()
			}
		}
	}
	return "", nil, lastErr
}

// isRetryable returns true for transient errors worth retrying.
func isRetryable(err error) bool {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return isRetryableStatus(httpErr.StatusCode)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
