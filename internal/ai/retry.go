package ai

import (
	"context"
	"errors"
	"time"

	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// RetryPolicy bounds the attempts made by Retrying
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Retrying retries rate limits, 5xx answers and transport failures with
// exponential backoff. Missing credentials, malformed replies and 4xx fail fast.
type Retrying struct {
	next   Enricher
	policy RetryPolicy
	log    *logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrying(next Enricher, policy RetryPolicy, log *logger.Logger) *Retrying {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Retrying{next: next, policy: policy, log: log, sleep: sleepContext}
}

func (r *Retrying) Enrich(ctx context.Context, word string) (*models.Enrichment, error) {
	backoff := r.policy.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		result, err := r.next.Enrich(ctx, word)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) || attempt == r.policy.MaxAttempts || ctx.Err() != nil {
			break
		}

		wait := backoff
		var rl *RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > wait {
			wait = rl.RetryAfter
		}
		if r.policy.MaxBackoff > 0 && wait > r.policy.MaxBackoff {
			wait = r.policy.MaxBackoff
		}

		r.log.Warn("enrichment retrying",
			"word", word,
			"attempt", attempt,
			"kind", Kind(err),
			"wait", wait,
		)
		retriesTotal.WithLabelValues(Kind(err)).Inc()

		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
