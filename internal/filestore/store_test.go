package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	topic := models.Topic{
		ID:        "5f1c7f0e-1111-4a4a-9c9c-000000000001",
		Name:      "Emotions",
		CreatedAt: 1700000000000,
		Items: []models.VocabItem{
			{ID: "a", Word: "Happy", Synonyms: []string{"joyful"}, UserGuesses: []string{}, Status: models.StatusHidden},
		},
	}
	require.NoError(t, store.SaveTopic(ctx, topic))

	topic.Items[0].Status = models.StatusDiscovered
	require.NoError(t, store.SaveTopic(ctx, topic))

	topics, err := store.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, topic, topics[0])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, store.SaveTopic(context.Background(), models.Topic{ID: "ok", Name: "Ok", Items: []models.VocabItem{}}))

	topics, err := store.ListTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "ok", topics[0].ID)
}

func TestStore_DeleteAndInvalidIDs(t *testing.T) {
	store, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveTopic(ctx, models.Topic{ID: "t1", Name: "One", Items: []models.VocabItem{}}))
	require.NoError(t, store.DeleteTopic(ctx, "t1"))
	require.NoError(t, store.DeleteTopic(ctx, "t1"))

	assert.ErrorIs(t, store.SaveTopic(ctx, models.Topic{ID: "../escape"}), ErrInvalidID)
	assert.ErrorIs(t, store.DeleteTopic(ctx, ""), ErrInvalidID)
}
