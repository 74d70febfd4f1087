package bus

import (
	"context"
	"sync"

	"orderaccumulator/internal/schema"

	"github.com/yanun0323/errors"
)

var (
	ErrQueueFull   = errors.New("decision queue full")
	ErrQueueClosed = errors.New("decision queue closed")
)

// Event is one evaluated order passed through the in-memory journal.
type Event struct {
	Session  string
	Order    schema.Order
	Decision schema.Decision
	TsRecv   int64
}

// Queue is a bounded, non-blocking event queue. Publishing is safe from
// many goroutines, including concurrently with Close.
type Queue struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// TryPublish enqueues an event without blocking.
func (q *Queue) TryPublish(e Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new events. Events already queued are
// still delivered by Run.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Run consumes events until the context is done or the queue is closed and
// drained.
func (q *Queue) Run(ctx context.Context, handler func(Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.ch:
			if !ok {
				return
			}
			handler(e)
		}
	}
}
