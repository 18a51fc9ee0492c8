package recall

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// Engine owns the topic library and the practice sessions that read from it.
// Sessions are keyed by an opaque string (an HTTP session header, a chat id).
type Engine struct {
	lib      *Library
	enricher Enricher
	log      *logger.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewEngine wires a library over repo. enricher may be nil, in which case
// discovered words are never enriched.
func NewEngine(repo Repository, enricher Enricher, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		lib:      NewLibrary(repo, log),
		enricher: enricher,
		log:      log.With("component", "recall"),
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Load fetches the persisted topics. A failure leaves the library empty.
func (e *Engine) Load(ctx context.Context) error {
	return e.lib.Load(ctx)
}

// Library exposes the topic list
func (e *Engine) Library() *Library {
	return e.lib
}

// Topics returns all topics, newest first
func (e *Engine) Topics() []models.Topic {
	return e.lib.Topics()
}

// AddTopic creates a topic without touching any session
func (e *Engine) AddTopic(name string, items []models.VocabItem) (models.Topic, error) {
	return e.lib.Create(name, items)
}

// DeleteTopic removes a topic everywhere. Sessions showing it return to the topic list.
func (e *Engine) DeleteTopic(id string) bool {
	found := e.lib.Delete(id)

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.sessions {
		s.dropTopic(id)
	}
	return found
}

// Session returns the session registered under key, creating it on first use
func (e *Engine) Session(key string) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[key]
	if !ok {
		s = newSession(e)
		e.sessions[key] = s
	}
	return s
}

// NewSession registers a fresh session under a generated key
func (e *Engine) NewSession() (string, *Session) {
	key := uuid.NewString()
	return key, e.Session(key)
}

// EndSession forgets the session under key
func (e *Engine) EndSession(key string) {
	e.mu.Lock()
	delete(e.sessions, key)
	e.mu.Unlock()
}

// Wait blocks until in-flight enrichments finish and queued writes are attempted
func (e *Engine) Wait() {
	e.inflight.Wait()
	e.lib.Flush()
}

// Close cancels outstanding enrichments and drains pending writes
func (e *Engine) Close() {
	e.cancel()
	e.inflight.Wait()
	e.lib.Close()
}

// requestEnrichment fetches content for one item in the background and
// merges the whole response into the item when it arrives.
func (e *Engine) requestEnrichment(topicID, itemID, word string, fresh bool) {
	if e.enricher == nil {
		return
	}
	if e.ctx.Err() != nil {
		return
	}

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()

		fetch := e.enricher.Enrich
		if regen, ok := e.enricher.(Regenerator); ok && fresh {
			fetch = regen.Regenerate
		}

		result, err := fetch(e.ctx, word)
		if err != nil {
			e.log.Warn("enrichment failed", "word", word, "topic_id", topicID, "error", err)
			return
		}
		if result == nil {
			return
		}

		err = e.lib.mutate(topicID, func(t *models.Topic) bool {
			idx := t.ItemIndex(itemID)
			if idx < 0 {
				return false
			}
			t.Items[idx].ApplyEnrichment(result)
			return true
		})
		if errors.Is(err, ErrTopicNotFound) {
			e.log.Debug("topic gone before enrichment arrived", "topic_id", topicID, "word", word)
		}
	}()
}
