package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "vocab:topic:abc", TopicKey("vocab", "abc"))
	assert.Equal(t, "vocab:topics", IndexKey("vocab"))

	store := NewTopicStore(nil, "")
	assert.Equal(t, defaultPrefix, store.prefix)
}

func TestDecodeTopics(t *testing.T) {
	values := []interface{}{
		`{"id":"t1","name":"Emotions","items":[{"id":"a","word":"Happy","synonyms":["glad"],"userGuesses":[],"status":"hidden","phonetics":"/ˈhæpi/"}],"createdAt":5}`,
		nil,
	}

	topics, err := decodeTopics(values)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Emotions", topics[0].Name)
	assert.Equal(t, int64(5), topics[0].CreatedAt)
	assert.Equal(t, "/ˈhæpi/", topics[0].Items[0].Phonetics.UK)

	_, err = decodeTopics([]interface{}{"{"})
	assert.Error(t, err)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
