package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// TopicRepository stores topics and their items in SQLite or PostgreSQL
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new repository instance
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// ListTopics returns every topic with its items in stored order
func (r *TopicRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.SelectContext(ctx, &topics, "SELECT id, name, created_at FROM topics ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}

	var rows []itemRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT id, topic_id, position, word, synonyms, enrichment, user_guesses, status
		FROM vocab_items
		ORDER BY topic_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab items: %w", err)
	}

	byTopic := make(map[string][]models.VocabItem, len(topics))
	for _, row := range rows {
		item, err := row.toModel()
		if err != nil {
			return nil, err
		}
		byTopic[row.TopicID] = append(byTopic[row.TopicID], item)
	}

	for i := range topics {
		topics[i].Items = byTopic[topics[i].ID]
		if topics[i].Items == nil {
			topics[i].Items = []models.VocabItem{}
		}
	}
	return topics, nil
}

// SaveTopic inserts the topic or fully replaces the stored copy
func (r *TopicRepository) SaveTopic(ctx context.Context, topic models.Topic) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO topics (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, created_at = excluded.created_at
	`), topic.ID, topic.Name, topic.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert topic: %w", err)
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind("DELETE FROM vocab_items WHERE topic_id = ?"), topic.ID)
	if err != nil {
		return fmt.Errorf("failed to clear vocab items: %w", err)
	}

	for i, item := range topic.Items {
		row, err := newItemRow(topic.ID, i, item)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO vocab_items (id, topic_id, position, word, synonyms, enrichment, user_guesses, status)
			VALUES (:id, :topic_id, :position, :word, :synonyms, :enrichment, :user_guesses, :status)
		`, row)
		if err != nil {
			return fmt.Errorf("failed to insert vocab item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTopic removes a topic and its items. Unknown ids are not an error.
func (r *TopicRepository) DeleteTopic(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM vocab_items WHERE topic_id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete vocab items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM topics WHERE id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
