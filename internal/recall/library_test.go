package recall

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// stallingRepo blocks every save until unblock is called
type stallingRepo struct {
	*memRepo
	release chan struct{}
	once    sync.Once
}

func newStallingRepo() *stallingRepo {
	return &stallingRepo{memRepo: newMemRepo(), release: make(chan struct{})}
}

func (r *stallingRepo) SaveTopic(ctx context.Context, t models.Topic) error {
	select {
	case <-r.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.memRepo.SaveTopic(ctx, t)
}

func (r *stallingRepo) unblock() {
	r.once.Do(func() { close(r.release) })
}

func TestLibrary_StalledRepositoryDoesNotBlockTransitions(t *testing.T) {
	repo := newStallingRepo()
	e := NewEngine(repo, nil, nil)
	t.Cleanup(e.Close)
	t.Cleanup(repo.unblock)

	s, topic := startPlaying(t, e)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			s.Discover("happy")
			s.GuessSynonym("happy", "joyful")
			_ = s.ResetTopicProgress()
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("transitions blocked behind a stalled repository")
	}
	assert.Len(t, e.Topics(), 1)
	assert.Equal(t, 0, s.Stats().DiscoveredCount)

	repo.unblock()
	e.Wait()

	stored, ok := repo.stored(topic.ID)
	require.True(t, ok)
	for _, item := range stored.Items {
		assert.Equal(t, models.StatusHidden, item.Status, "latest snapshot wins")
		assert.Empty(t, item.UserGuesses)
	}
	assert.LessOrEqual(t, repo.saveCount(), 2, "pending snapshots are coalesced")
}

func TestWriteQueue_CoalescesPerTopic(t *testing.T) {
	q := newWriteQueue()

	a1 := models.Topic{ID: "a", Name: "first"}
	a2 := models.Topic{ID: "a", Name: "second"}
	b := models.Topic{ID: "b"}

	assert.True(t, q.push(writeOp{topic: &a1}))
	assert.True(t, q.push(writeOp{topic: &b}))
	assert.False(t, q.push(writeOp{topic: &a2}))

	op, ok, done := q.pop()
	require.True(t, ok)
	assert.False(t, done)
	assert.Equal(t, "second", op.topic.Name, "replaced in place, keeps its position")

	assert.False(t, q.push(writeOp{deleteID: "b"}))
	op, ok, _ = q.pop()
	require.True(t, ok)
	assert.Nil(t, op.topic)
	assert.Equal(t, "b", op.deleteID)

	_, ok, done = q.pop()
	assert.False(t, ok)
	assert.False(t, done)

	q.close()
	_, ok, done = q.pop()
	assert.False(t, ok)
	assert.True(t, done)
}
