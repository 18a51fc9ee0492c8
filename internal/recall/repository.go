package recall

import (
	"context"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// Repository persists whole topics. Implementations live in
// internal/database, internal/filestore and internal/cache.
type Repository interface {
	// ListTopics returns every stored topic in any order
	ListTopics(ctx context.Context) ([]models.Topic, error)
	// SaveTopic inserts or fully replaces the topic with the same ID
	SaveTopic(ctx context.Context, topic models.Topic) error
	// DeleteTopic removes a topic; deleting an unknown id is not an error
	DeleteTopic(ctx context.Context, id string) error
}

// Enricher fetches generated content for a word
type Enricher interface {
	Enrich(ctx context.Context, word string) (*models.Enrichment, error)
}

// Regenerator is implemented by enrichers that cache results; Regenerate
// skips the cache so a manual regeneration yields fresh content.
type Regenerator interface {
	Regenerate(ctx context.Context, word string) (*models.Enrichment, error)
}
