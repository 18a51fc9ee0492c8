package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romizzidiamly/vocabmaster/internal/config"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

func newTestRepo(t *testing.T) *TopicRepository {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTopicRepository(db)
}

func sampleTopic(id string, createdAt int64) models.Topic {
	return models.Topic{
		ID:        id,
		Name:      "Emotions " + id,
		CreatedAt: createdAt,
		Items: []models.VocabItem{
			{ID: "a", Word: "Happy", Synonyms: []string{"joyful", "glad"}, UserGuesses: []string{}, Status: models.StatusHidden},
			{ID: "b", Word: "Sad", Synonyms: []string{"unhappy"}, UserGuesses: []string{}, Status: models.StatusHidden},
		},
	}
}

func TestTopicRepository_SaveAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveTopic(ctx, sampleTopic("t1", 100)))
	require.NoError(t, repo.SaveTopic(ctx, sampleTopic("t2", 200)))

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "t2", topics[0].ID)
	assert.Equal(t, int64(200), topics[0].CreatedAt)
	require.Len(t, topics[1].Items, 2)
	assert.Equal(t, "Happy", topics[1].Items[0].Word)
	assert.Equal(t, []string{"joyful", "glad"}, topics[1].Items[0].Synonyms)
	assert.Equal(t, []string{}, topics[1].Items[0].UserGuesses)
	assert.Nil(t, topics[1].Items[0].Phonetics)
}

func TestTopicRepository_SaveReplacesItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	topic := sampleTopic("t1", 100)
	require.NoError(t, repo.SaveTopic(ctx, topic))

	topic.Items = topic.Items[:1]
	topic.Items[0].Status = models.StatusMastered
	topic.Items[0].UserGuesses = []string{"JOYFUL", "glad"}
	topic.Items[0].ApplyEnrichment(&models.Enrichment{
		Meaning:   "bahagia",
		Phonetics: &models.Phonetics{US: "/ˈhæpi/", UK: "/ˈhæpi/"},
		Examples:  []models.Example{{Type: models.ExampleSimple, Text: "She is happy.", Translation: "Dia bahagia."}},
	})
	require.NoError(t, repo.SaveTopic(ctx, topic))

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Len(t, topics[0].Items, 1)

	got := topics[0].Items[0]
	assert.Equal(t, models.StatusMastered, got.Status)
	assert.Equal(t, []string{"JOYFUL", "glad"}, got.UserGuesses)
	assert.Equal(t, "bahagia", got.Meaning)
	assert.Equal(t, "/ˈhæpi/", got.Phonetics.UK)
	assert.Len(t, got.Examples, 1)
}

func TestTopicRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveTopic(ctx, sampleTopic("t1", 100)))
	require.NoError(t, repo.DeleteTopic(ctx, "t1"))
	require.NoError(t, repo.DeleteTopic(ctx, "t1"), "deleting twice is fine")

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vocab.db")
	db, err := Open(config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer db.Close()

	repo := NewTopicRepository(db)
	require.NoError(t, repo.SaveTopic(context.Background(), sampleTopic("t1", 1)))
	assert.FileExists(t, path)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.StorageConfig{Driver: config.DriverFile})
	assert.Error(t, err)
}
