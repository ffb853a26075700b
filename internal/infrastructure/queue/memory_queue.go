package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/notification"
)

// MemoryTaskQueue keeps tasks in process memory. Tasks are lost on exit.
type MemoryTaskQueue struct {
	mu          sync.Mutex
	pending     []notification.Task
	inflight    map[string]notification.Task
	dead        []notification.Task
	maxAttempts int
	ready       chan struct{}
	closed      chan struct{}
	closeOnce   sync.Once
}

// NewMemoryTaskQueue creates an empty queue
func NewMemoryTaskQueue(maxAttempts int) *MemoryTaskQueue {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &MemoryTaskQueue{
		inflight:    make(map[string]notification.Task),
		maxAttempts: maxAttempts,
		ready:       make(chan struct{}, 1),
		closed:      make(chan struct{}),
	}
}

// Submit enqueues a task
func (q *MemoryTaskQueue) Submit(ctx context.Context, task notification.Task) (notification.TaskHandle, error) {
	select {
	case <-q.closed:
		return notification.TaskHandle{}, notification.ErrQueueClosed
	default:
	}

	q.mu.Lock()
	q.pending = append(q.pending, task)
	q.mu.Unlock()
	q.signal()
	return notification.TaskHandle{ID: task.ID}, nil
}

// Receive waits for the oldest pending task
func (q *MemoryTaskQueue) Receive(ctx context.Context) (*notification.Delivery, error) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			task := q.pending[0]
			q.pending = q.pending[1:]
			receipt := uuid.NewString()
			q.inflight[receipt] = task
			more := len(q.pending) > 0
			q.mu.Unlock()
			if more {
				q.signal()
			}
			return &notification.Delivery{Task: task, Receipt: receipt}, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.closed:
			return nil, notification.ErrQueueClosed
		case <-q.ready:
		}
	}
}

// Ack forgets a delivered task
func (q *MemoryTaskQueue) Ack(ctx context.Context, d *notification.Delivery) error {
	q.mu.Lock()
	delete(q.inflight, d.Receipt)
	q.mu.Unlock()
	return nil
}

// Nack re-queues a task or parks it after max attempts
func (q *MemoryTaskQueue) Nack(ctx context.Context, d *notification.Delivery) error {
	task := d.Task
	task.Attempt++

	q.mu.Lock()
	delete(q.inflight, d.Receipt)
	if task.Attempt >= q.maxAttempts {
		q.dead = append(q.dead, task)
		q.mu.Unlock()
		return nil
	}
	q.pending = append(q.pending, task)
	q.mu.Unlock()
	q.signal()
	return nil
}

// Close wakes blocked receivers with ErrQueueClosed
func (q *MemoryTaskQueue) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}

// Stats reports queue sizes
func (q *MemoryTaskQueue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Pending:    int64(len(q.pending)),
		Processing: int64(len(q.inflight)),
		Dead:       int64(len(q.dead)),
	}
}

// Dead returns a copy of the parked tasks
func (q *MemoryTaskQueue) Dead() []notification.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notification.Task(nil), q.dead...)
}

func (q *MemoryTaskQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

var _ notification.TaskQueue = (*MemoryTaskQueue)(nil)
