package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingCredentials means no API key is configured
	ErrMissingCredentials = errors.New("ai: api key not configured")
	// ErrRateLimited is matched by every *RateLimitError
	ErrRateLimited = errors.New("ai: rate limited")
	// ErrMalformedResponse means the provider answered 2xx with content that is not the expected JSON
	ErrMalformedResponse = errors.New("ai: malformed response")
	ErrEmptyWord         = errors.New("ai: word is required")
)

// RateLimitError is returned on HTTP 429. RetryAfter is zero when the
// provider sent no usable Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("ai: rate limited, retry after %s", e.RetryAfter)
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// UpstreamError is any other non-2xx answer from the provider
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai: upstream returned %d: %s", e.StatusCode, e.Body)
}

// Kind classifies err for logs, metrics and HTTP mapping
func Kind(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrEmptyWord):
		return "invalid"
	case errors.As(err, &upstream):
		return "upstream"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}

// retryable reports whether another attempt could succeed
func retryable(err error) bool {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrRateLimited):
		return true
	case errors.As(err, &upstream):
		return upstream.StatusCode >= 500
	}
	return Kind(err) == "transport"
}
