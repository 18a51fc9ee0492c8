package recall

import (
	"strings"
	"sync"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// Session is one learner's view over the library: which topic is open,
// which phase the learner is in, and the running score.
// Item progress lives on the topic itself so every session sees the same state.
type Session struct {
	engine *Engine

	mu      sync.Mutex
	phase   models.Phase
	topicID string
	score   int
}

func newSession(e *Engine) *Session {
	return &Session{engine: e, phase: models.PhaseTopicList}
}

// Phase returns the current phase
func (s *Session) Phase() models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Score returns the number of synonyms accepted since the topic was opened
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// ActiveTopicID returns the open topic, or "" on the topic list
func (s *Session) ActiveTopicID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topicID
}

// State returns a snapshot suitable for rendering
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := models.SessionState{
		Phase: s.phase,
		Items: []models.VocabItem{},
		Score: s.score,
	}
	if s.topicID == "" {
		return state
	}

	found := s.engine.lib.view(s.topicID, func(t *models.Topic) {
		state.ActiveTopicID = t.ID
		state.TopicName = t.Name
		state.Items = make([]models.VocabItem, len(t.Items))
		for i, item := range t.Items {
			state.Items[i] = item.Clone()
		}
	})
	if !found {
		s.resetLocked()
		state.Phase = s.phase
		state.Score = 0
		return state
	}

	state.Stats = models.ComputeStats(state.Items)
	return state
}

// Stats returns the derived counts for the open topic
func (s *Session) Stats() models.Stats {
	return s.State().Stats
}

// SelectTopic opens a topic in the preview phase
func (s *Session) SelectTopic(id string) error {
	if _, ok := s.engine.lib.Topic(id); !ok {
		return ErrTopicNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topicID = id
	s.phase = models.PhasePreview
	s.score = 0
	return nil
}

// AddTopic creates a topic from extracted items and opens it in preview
func (s *Session) AddTopic(name string, items []models.VocabItem) (models.Topic, error) {
	topic, err := s.engine.lib.Create(name, items)
	if err != nil {
		return models.Topic{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topicID = topic.ID
	s.phase = models.PhasePreview
	s.score = 0
	return topic, nil
}

// ConfirmPreview starts playing the open topic
func (s *Session) ConfirmPreview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topicID == "" {
		return ErrNoActiveTopic
	}
	if _, ok := s.engine.lib.Topic(s.topicID); !ok {
		s.resetLocked()
		return ErrTopicNotFound
	}
	s.phase = models.PhasePlaying
	return nil
}

// ExitToList closes the open topic. Item progress stays on the topic.
func (s *Session) ExitToList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Discover reveals a hidden item by id
func (s *Session) Discover(itemID string) (models.VocabItem, DiscoverOutcome) {
	return s.discover(func(t *models.Topic) int {
		return t.ItemIndex(itemID)
	})
}

// DiscoverWord reveals the item whose word matches input, ignoring case and
// surrounding space. With duplicate words the first hidden match wins.
func (s *Session) DiscoverWord(input string) (models.VocabItem, DiscoverOutcome) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return models.VocabItem{}, NotFound
	}

	return s.discover(func(t *models.Topic) int {
		first := -1
		for i := range t.Items {
			if strings.ToLower(t.Items[i].Word) != needle {
				continue
			}
			if t.Items[i].Status == models.StatusHidden {
				return i
			}
			if first < 0 {
				first = i
			}
		}
		return first
	})
}

func (s *Session) discover(find func(t *models.Topic) int) (models.VocabItem, DiscoverOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topicID == "" {
		return models.VocabItem{}, NotFound
	}

	var (
		item      models.VocabItem
		outcome   = NotFound
		needFetch bool
	)
	err := s.engine.lib.mutate(s.topicID, func(t *models.Topic) bool {
		idx := find(t)
		if idx < 0 {
			return false
		}
		it := &t.Items[idx]
		if it.Status.Revealed() {
			item, outcome = it.Clone(), AlreadyRevealed
			return false
		}
		it.Status = models.StatusDiscovered
		needFetch = !it.HasEnrichment()
		item, outcome = it.Clone(), Discovered
		return true
	})
	if err != nil {
		s.resetLocked()
		return models.VocabItem{}, NotFound
	}

	if needFetch {
		s.engine.requestEnrichment(s.topicID, item.ID, item.Word, false)
	}
	return item, outcome
}

// GuessSynonym checks text against a revealed item's synonyms.
// A new correct guess is recorded and scored; the item is mastered once
// every synonym has been guessed. Hidden items never accept guesses.
func (s *Session) GuessSynonym(itemID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topicID == "" {
		return false
	}

	var matched, added bool
	err := s.engine.lib.mutate(s.topicID, func(t *models.Topic) bool {
		idx := t.ItemIndex(itemID)
		if idx < 0 {
			return false
		}
		it := &t.Items[idx]
		if it.Status == models.StatusHidden || !it.MatchSynonym(text) {
			return false
		}
		matched = true
		if it.HasGuessed(text) {
			return false
		}

		it.UserGuesses = append(it.UserGuesses, strings.TrimSpace(text))
		if len(it.UserGuesses) >= len(it.Synonyms) {
			it.Status = models.StatusMastered
		}
		added = true
		return true
	})
	if err != nil {
		s.resetLocked()
		return false
	}

	if added {
		s.score++
	}
	return matched
}

// RegenerateEnrichment clears an item's enrichment and fetches it again
func (s *Session) RegenerateEnrichment(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topicID == "" {
		return ErrNoActiveTopic
	}

	var word string
	err := s.engine.lib.mutate(s.topicID, func(t *models.Topic) bool {
		idx := t.ItemIndex(itemID)
		if idx < 0 {
			return false
		}
		it := &t.Items[idx]
		word = it.Word
		had := it.HasEnrichment() || it.Definition != "" || len(it.SynonymMeanings) > 0
		it.ApplyEnrichment(nil)
		return had
	})
	if err != nil {
		s.resetLocked()
		return err
	}
	if word == "" {
		return ErrItemNotFound
	}

	s.engine.requestEnrichment(s.topicID, itemID, word, true)
	return nil
}

// ResetTopicProgress hides every item of the open topic and clears guesses and score
func (s *Session) ResetTopicProgress() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topicID == "" {
		return ErrNoActiveTopic
	}

	err := s.engine.lib.mutate(s.topicID, func(t *models.Topic) bool {
		changed := false
		for i := range t.Items {
			it := &t.Items[i]
			if it.Status != models.StatusHidden || len(it.UserGuesses) > 0 {
				changed = true
			}
			it.Status = models.StatusHidden
			it.UserGuesses = []string{}
		}
		return changed
	})
	if err != nil {
		s.resetLocked()
		return err
	}
	s.score = 0
	return nil
}

// dropTopic returns the session to the list when id is the open topic
func (s *Session) dropTopic(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topicID == id {
		s.resetLocked()
	}
}

func (s *Session) resetLocked() {
	s.phase = models.PhaseTopicList
	s.topicID = ""
	s.score = 0
}
