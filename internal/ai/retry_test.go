package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// scriptedEnricher returns the scripted errors in order, then succeeds
type scriptedEnricher struct {
	mu     sync.Mutex
	errs   []error
	calls  int
	result *models.Enrichment
}

func (s *scriptedEnricher) Enrich(ctx context.Context, word string) (*models.Enrichment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &models.Enrichment{Meaning: "arti " + word}, nil
}

func newTestRetrying(next Enricher, attempts int) (*Retrying, *[]time.Duration) {
	r := NewRetrying(next, RetryPolicy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Second,
		MaxBackoff:     3 * time.Second,
	}, nil)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetrying_BacksOffOnRateLimit(t *testing.T) {
	next := &scriptedEnricher{errs: []error{
		&RateLimitError{},
		&UpstreamError{StatusCode: 503},
		errors.New("connection reset"),
	}}
	r, waits := newTestRetrying(next, 4)

	result, err := r.Enrich(context.Background(), "happy")
	require.NoError(t, err)
	assert.Equal(t, "arti happy", result.Meaning)
	assert.Equal(t, 4, next.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, *waits)
}

func TestRetrying_HonorsRetryAfter(t *testing.T) {
	next := &scriptedEnricher{errs: []error{&RateLimitError{RetryAfter: 2500 * time.Millisecond}}}
	r, waits := newTestRetrying(next, 2)

	_, err := r.Enrich(context.Background(), "happy")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2500 * time.Millisecond}, *waits)
}

func TestRetrying_FailsFast(t *testing.T) {
	for _, failure := range []error{
		ErrMissingCredentials,
		ErrMalformedResponse,
		&UpstreamError{StatusCode: 400},
	} {
		next := &scriptedEnricher{errs: []error{failure}}
		r, waits := newTestRetrying(next, 4)

		_, err := r.Enrich(context.Background(), "happy")
		assert.ErrorIs(t, err, failure)
		assert.Equal(t, 1, next.calls)
		assert.Empty(t, *waits)
	}
}

func TestRetrying_GivesUp(t *testing.T) {
	next := &scriptedEnricher{errs: []error{&RateLimitError{}, &RateLimitError{}, &RateLimitError{}}}
	r, _ := newTestRetrying(next, 3)

	_, err := r.Enrich(context.Background(), "happy")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 3, next.calls)
}

func TestRetrying_StopsOnCancel(t *testing.T) {
	next := &scriptedEnricher{errs: []error{&RateLimitError{}, &RateLimitError{}}}
	r, _ := newTestRetrying(next, 4)
	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := r.Enrich(ctx, "happy")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}
