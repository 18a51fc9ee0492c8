package recall

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

const writeTimeout = 15 * time.Second

// Library is the in-memory topic list backed by a Repository.
// Every change is applied in memory first, then written by a single worker
// from a queue holding the latest snapshot per topic. A slow repository never
// holds up transitions or reads. Write failures are logged and never rolled
// back (last writer wins).
type Library struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time

	mu     sync.RWMutex
	topics map[string]*models.Topic
	closed bool

	queue   *writeQueue
	pending sync.WaitGroup
	done    chan struct{}
}

// NewLibrary creates an empty library and starts its write worker
func NewLibrary(repo Repository, log *logger.Logger) *Library {
	if log == nil {
		log = logger.Nop()
	}
	l := &Library{
		repo:   repo,
		log:    log.With("component", "library"),
		now:    time.Now,
		topics: make(map[string]*models.Topic),
		queue:  newWriteQueue(),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Load replaces the in-memory topics with the repository contents.
// On failure the library keeps an empty list and the error is returned for reporting.
func (l *Library) Load(ctx context.Context) error {
	topics, err := l.repo.ListTopics(ctx)
	if err != nil {
		l.log.Error("failed to load topics", "error", err)
		l.mu.Lock()
		l.topics = make(map[string]*models.Topic)
		l.mu.Unlock()
		return err
	}

	loaded := make(map[string]*models.Topic, len(topics))
	for i := range topics {
		t := topics[i].Clone()
		for j := range t.Items {
			normalizeItem(&t.Items[j])
		}
		loaded[t.ID] = &t
	}

	l.mu.Lock()
	l.topics = loaded
	l.mu.Unlock()

	l.log.Info("topics loaded", "count", len(loaded))
	return nil
}

// Topics returns copies of all topics, newest first
func (l *Library) Topics() []models.Topic {
	l.mu.RLock()
	out := make([]models.Topic, 0, len(l.topics))
	for _, t := range l.topics {
		out = append(out, t.Clone())
	}
	l.mu.RUnlock()

	models.SortNewestFirst(out)
	return out
}

// Topic returns a copy of one topic
func (l *Library) Topic(id string) (models.Topic, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.topics[id]
	if !ok {
		return models.Topic{}, false
	}
	return t.Clone(), true
}

// Create adds a new topic built from extracted items and persists it
func (l *Library) Create(name string, items []models.VocabItem) (models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Topic{}, ErrEmptyName
	}
	if len(items) == 0 {
		return models.Topic{}, ErrEmptyTopic
	}

	topic := models.Topic{
		ID:        uuid.NewString(),
		Name:      name,
		Items:     make([]models.VocabItem, len(items)),
		CreatedAt: l.now().UnixMilli(),
	}
	for i, item := range items {
		topic.Items[i] = item.Clone()
		if err := cleanItem(&topic.Items[i]); err != nil {
			return models.Topic{}, fmt.Errorf("%w (item %d)", err, i+1)
		}
		normalizeItem(&topic.Items[i])
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stored := topic.Clone()
	l.topics[topic.ID] = &stored
	l.enqueue(writeOp{topic: &topic})

	l.log.Info("topic created", "topic_id", topic.ID, "name", topic.Name, "items", len(topic.Items))
	return topic.Clone(), nil
}

// Delete removes a topic from memory and the repository.
// It reports whether the topic was known.
func (l *Library) Delete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.topics[id]
	delete(l.topics, id)
	l.enqueue(writeOp{deleteID: id})
	return ok
}

// mutate runs fn on the live topic under the write lock. When fn reports a
// change, a snapshot of the topic is queued for saving.
func (l *Library) mutate(topicID string, fn func(t *models.Topic) bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.topics[topicID]
	if !ok {
		return ErrTopicNotFound
	}
	if fn(t) {
		snapshot := t.Clone()
		l.enqueue(writeOp{topic: &snapshot})
	}
	return nil
}

// view runs fn on the live topic under the read lock
func (l *Library) view(topicID string, fn func(t *models.Topic)) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.topics[topicID]
	if ok {
		fn(t)
	}
	return ok
}

// enqueue must be called with l.mu held so queue order matches mutation order.
// It never blocks.
func (l *Library) enqueue(op writeOp) {
	if l.closed {
		l.log.Warn("library closed, dropping write", "topic_id", op.id())
		return
	}
	l.pending.Add(1)
	if !l.queue.push(op) {
		// replaced a pending write for the same topic
		l.pending.Done()
	}
}

func (l *Library) run() {
	defer close(l.done)

	for {
		op, ok, done := l.queue.pop()
		if done {
			return
		}
		if !ok {
			<-l.queue.wake
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if op.topic != nil {
			if err := l.repo.SaveTopic(ctx, *op.topic); err != nil {
				l.log.Error("failed to save topic", "topic_id", op.topic.ID, "error", err)
			}
		} else if err := l.repo.DeleteTopic(ctx, op.deleteID); err != nil {
			l.log.Error("failed to delete topic", "topic_id", op.deleteID, "error", err)
		}
		cancel()
		l.pending.Done()
	}
}

// Flush blocks until every queued write has been attempted
func (l *Library) Flush() {
	l.pending.Wait()
}

// Close drains the write queue and stops the worker
func (l *Library) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue.close()
	l.mu.Unlock()

	<-l.done
}

// cleanItem trims the word and synonyms and drops blank synonyms
func cleanItem(item *models.VocabItem) error {
	item.Word = strings.TrimSpace(item.Word)
	synonyms := item.Synonyms[:0]
	for _, syn := range item.Synonyms {
		if syn = strings.TrimSpace(syn); syn != "" {
			synonyms = append(synonyms, syn)
		}
	}
	item.Synonyms = synonyms
	if item.Word == "" || len(item.Synonyms) == 0 {
		return ErrInvalidItem
	}
	return nil
}

// normalizeItem restores the per-item invariants on data from outside the engine
func normalizeItem(item *models.VocabItem) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.UserGuesses == nil {
		item.UserGuesses = []string{}
	}
	switch item.Status {
	case models.StatusDiscovered, models.StatusMastered:
	default:
		item.Status = models.StatusHidden
	}
	if item.Status == models.StatusHidden {
		item.UserGuesses = []string{}
	}
	if item.Status == models.StatusMastered && len(item.UserGuesses) < len(item.Synonyms) {
		item.Status = models.StatusDiscovered
	}
}
