package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// itemRow is one vocab_items row. List columns are stored as JSON text.
type itemRow struct {
	ID          string         `db:"id"`
	TopicID     string         `db:"topic_id"`
	Position    int            `db:"position"`
	Word        string         `db:"word"`
	Synonyms    string         `db:"synonyms"`
	Enrichment  sql.NullString `db:"enrichment"`
	UserGuesses string         `db:"user_guesses"`
	Status      string         `db:"status"`
}

func newItemRow(topicID string, position int, item models.VocabItem) (itemRow, error) {
	synonyms, err := json.Marshal(nonNil(item.Synonyms))
	if err != nil {
		return itemRow{}, fmt.Errorf("failed to encode synonyms: %w", err)
	}
	guesses, err := json.Marshal(nonNil(item.UserGuesses))
	if err != nil {
		return itemRow{}, fmt.Errorf("failed to encode guesses: %w", err)
	}

	row := itemRow{
		ID:          item.ID,
		TopicID:     topicID,
		Position:    position,
		Word:        item.Word,
		Synonyms:    string(synonyms),
		UserGuesses: string(guesses),
		Status:      string(item.Status),
	}

	if e := enrichmentOf(item); e != nil {
		data, err := json.Marshal(e)
		if err != nil {
			return itemRow{}, fmt.Errorf("failed to encode enrichment: %w", err)
		}
		row.Enrichment = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

func (r itemRow) toModel() (models.VocabItem, error) {
	item := models.VocabItem{
		ID:     r.ID,
		Word:   r.Word,
		Status: models.Status(r.Status),
	}
	if err := json.Unmarshal([]byte(r.Synonyms), &item.Synonyms); err != nil {
		return item, fmt.Errorf("failed to decode synonyms of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.UserGuesses), &item.UserGuesses); err != nil {
		return item, fmt.Errorf("failed to decode guesses of %s: %w", r.ID, err)
	}
	if r.Enrichment.Valid && r.Enrichment.String != "" {
		var e models.Enrichment
		if err := json.Unmarshal([]byte(r.Enrichment.String), &e); err != nil {
			return item, fmt.Errorf("failed to decode enrichment of %s: %w", r.ID, err)
		}
		item.ApplyEnrichment(&e)
	}
	return item, nil
}

// enrichmentOf returns the item's enrichment fields, or nil when it has none
func enrichmentOf(item models.VocabItem) *models.Enrichment {
	if !item.HasEnrichment() && item.Definition == "" && len(item.SynonymMeanings) == 0 {
		return nil
	}
	return &models.Enrichment{
		Definition:      item.Definition,
		Meaning:         item.Meaning,
		Phonetics:       item.Phonetics,
		Examples:        item.Examples,
		SynonymMeanings: item.SynonymMeanings,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
