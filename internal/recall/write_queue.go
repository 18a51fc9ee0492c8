package recall

import (
	"sync"

	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// writeOp is one queued repository write: a full snapshot, or a deletion
type writeOp struct {
	topic    *models.Topic
	deleteID string
}

func (op writeOp) id() string {
	if op.topic != nil {
		return op.topic.ID
	}
	return op.deleteID
}

// writeQueue holds at most one pending write per topic. A newer write for a
// topic replaces the queued one in place, so topics are written in the order
// they first became dirty and push never blocks.
type writeQueue struct {
	mu     sync.Mutex
	ops    map[string]writeOp
	order  []string
	closed bool
	wake   chan struct{}
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		ops:  make(map[string]writeOp),
		wake: make(chan struct{}, 1),
	}
}

// push queues op and reports whether it took a new slot (false when it
// replaced a pending write for the same topic)
func (q *writeQueue) push(op writeOp) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := op.id()
	if _, ok := q.ops[id]; ok {
		q.ops[id] = op
		return false
	}
	q.ops[id] = op
	q.order = append(q.order, id)
	q.signal()
	return true
}

// pop takes the oldest pending write. done is true once the queue is
// closed and drained.
func (q *writeQueue) pop() (op writeOp, ok bool, done bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.order) == 0 {
		return writeOp{}, false, q.closed
	}
	id := q.order[0]
	q.order = q.order[1:]
	op = q.ops[id]
	delete(q.ops, id)
	return op, true, false
}

func (q *writeQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.signal()
}

// signal must be called with q.mu held
func (q *writeQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
