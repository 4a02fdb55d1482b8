package progress

import (
	"sync"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// Queue is a thread-safe, multi-producer/single-consumer FIFO of progress
// events. The orchestration worker publishes; a shell drains on its own
// polling interval. Events are delivered in production order. Publishing
// after the producer has logically finished is allowed; the consumer keeps
// draining until it stops polling.
type Queue struct {
	mu     sync.Mutex
	events []model.ProgressEvent
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Publish appends an event.
func (q *Queue) Publish(ev model.ProgressEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
}

// Drain returns all pending events in production order and empties the
// queue. Returns nil when nothing is pending.
func (q *Queue) Drain() []model.ProgressEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	drained := q.events
	q.events = nil
	return drained
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
