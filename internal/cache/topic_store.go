package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

const defaultPrefix = "vocab"

// TopicStore keeps each topic as a JSON string plus an index set of ids
type TopicStore struct {
	client *redis.Client
	prefix string
}

func NewTopicStore(client *redis.Client, prefix string) *TopicStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &TopicStore{client: client, prefix: prefix}
}

// TopicKey is the key holding one topic document
func TopicKey(prefix, id string) string {
	return prefix + ":topic:" + id
}

// IndexKey is the set listing every stored topic id
func IndexKey(prefix string) string {
	return prefix + ":topics"
}

func (s *TopicStore) ListTopics(ctx context.Context) ([]models.Topic, error) {
	ids, err := s.client.SMembers(ctx, IndexKey(s.prefix)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: list topic ids: %w", err)
	}
	if len(ids) == 0 {
		return []models.Topic{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = TopicKey(s.prefix, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: load topics: %w", err)
	}
	return decodeTopics(values)
}

// decodeTopics skips ids whose document has expired or vanished
func decodeTopics(values []interface{}) ([]models.Topic, error) {
	topics := make([]models.Topic, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var topic models.Topic
		if err := json.Unmarshal([]byte(raw), &topic); err != nil {
			return nil, fmt.Errorf("cache: decode topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

func (s *TopicStore) SaveTopic(ctx context.Context, topic models.Topic) error {
	data, err := json.Marshal(topic)
	if err != nil {
		return fmt.Errorf("cache: encode topic %s: %w", topic.ID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, TopicKey(s.prefix, topic.ID), data, 0)
		pipe.SAdd(ctx, IndexKey(s.prefix), topic.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: save topic %s: %w", topic.ID, err)
	}
	return nil
}

func (s *TopicStore) DeleteTopic(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, TopicKey(s.prefix, id))
		pipe.SRem(ctx, IndexKey(s.prefix), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: delete topic %s: %w", id, err)
	}
	return nil
}
