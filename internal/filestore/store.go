package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

var ErrInvalidID = errors.New("filestore: invalid topic id")

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store keeps one JSON document per topic under a directory
type Store struct {
	dir string
	log *logger.Logger
	mu  sync.Mutex
}

// New creates the directory if needed
func New(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create topic dir: %w", err)
	}
	return &Store{dir: dir, log: log.With("component", "filestore")}, nil
}

func (s *Store) path(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// ListTopics reads every *.json file. Unreadable files are skipped and logged.
func (s *Store) ListTopics(ctx context.Context) ([]models.Topic, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read topic dir: %w", err)
	}

	topics := make([]models.Topic, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.log.Warn("skipping unreadable topic file", "file", entry.Name(), "error", err)
			continue
		}
		var topic models.Topic
		if err := json.Unmarshal(data, &topic); err != nil {
			s.log.Warn("skipping corrupt topic file", "file", entry.Name(), "error", err)
			continue
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

// SaveTopic writes the topic to a temp file and renames it into place
func (s *Store) SaveTopic(ctx context.Context, topic models.Topic) error {
	path, err := s.path(topic.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(topic, "", "  ")
	if err != nil {
		return fmt.Errorf("encode topic %s: %w", topic.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+topic.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write topic %s: %w", topic.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close topic %s: %w", topic.ID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace topic %s: %w", topic.ID, err)
	}
	return nil
}

// DeleteTopic removes the topic file; a missing file is not an error
func (s *Store) DeleteTopic(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete topic %s: %w", id, err)
	}
	return nil
}
