package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// Defaults used when the configuration leaves a value unset
const (
	DefaultInterval  = 30 * time.Minute
	DefaultBatchSize = 20
	warmTimeout      = 2 * time.Minute
)

// Warmer fetches enrichment for a word into the cache.
// It reports whether a provider call was made.
type Warmer interface {
	Warm(ctx context.Context, word string) (bool, error)
}

// TopicSource lists the topics whose words should be warmed
type TopicSource interface {
	Topics() []models.Topic
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	topics    TopicSource
	log       *logger.Logger

	interval  time.Duration
	batchSize int
}

// New creates a new scheduler instance
func New(warmer Warmer, topics TopicSource, interval time.Duration, batchSize int, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		topics:    topics,
		log:       log.With("component", "scheduler"),
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.WarmOnce(context.Background())
	})
	if err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("enrichment warmer started", "interval", s.interval.String(), "batch_size", s.batchSize)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// WarmOnce fetches enrichment for up to batchSize words that still lack it.
// It returns how many provider calls were made.
func (s *Scheduler) WarmOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	fetched := 0
	for _, word := range s.pendingWords() {
		if fetched >= s.batchSize {
			break
		}
		called, err := s.warmer.Warm(ctx, word)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			s.log.Warn("failed to warm enrichment", "word", word, "error", err)
		}
		if called {
			fetched++
		}
	}

	if fetched > 0 {
		s.log.Info("enrichment cache warmed", "words", fetched)
	}
	return fetched
}

// pendingWords collects distinct words without enrichment, newest topics first
func (s *Scheduler) pendingWords() []string {
	seen := make(map[string]bool)
	var words []string
	for _, topic := range s.topics.Topics() {
		for i := range topic.Items {
			item := &topic.Items[i]
			if item.HasEnrichment() {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(item.Word))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			words = append(words, item.Word)
		}
	}
	return words
}
