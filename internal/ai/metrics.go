package ai

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

var (
	enrichRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_enrich_requests_total",
			Help: "Total number of enrichment requests by outcome",
		},
		[]string{"outcome"},
	)

	enrichDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vocab_enrich_duration_seconds",
			Help:    "Enrichment call duration in seconds, including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_enrich_retries_total",
			Help: "Total number of enrichment retries by failure kind",
		},
		[]string{"kind"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_enrich_cache_lookups_total",
			Help: "Enrichment cache lookups by result",
		},
		[]string{"result"},
	)
)

// Instrumented records outcome and latency of every call
type Instrumented struct {
	next Enricher
}

func NewInstrumented(next Enricher) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) Enrich(ctx context.Context, word string) (*models.Enrichment, error) {
	start := time.Now()
	result, err := i.next.Enrich(ctx, word)

	enrichDuration.Observe(time.Since(start).Seconds())
	enrichRequestsTotal.WithLabelValues(Kind(err)).Inc()
	return result, err
}

// Regenerate forwards to the wrapped enricher's Regenerate when it has one
func (i *Instrumented) Regenerate(ctx context.Context, word string) (*models.Enrichment, error) {
	regen, ok := i.next.(interface {
		Regenerate(ctx context.Context, word string) (*models.Enrichment, error)
	})
	if !ok {
		return i.Enrich(ctx, word)
	}

	start := time.Now()
	result, err := regen.Regenerate(ctx, word)

	enrichDuration.Observe(time.Since(start).Seconds())
	enrichRequestsTotal.WithLabelValues(Kind(err)).Inc()
	return result, err
}
