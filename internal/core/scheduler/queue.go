package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/voidrunner/voidrunner/internal/core"
)

// Operation is one remote round trip. It returns either a raw response or
// a transport error; logical failures (4xx/5xx) are responses, not errors.
type Operation func(ctx context.Context) (*core.Response, error)

type callResult struct {
	resp *core.Response
	err  error
}

// pendingCall is one submitted unit of work: the operation to invoke and
// the single-assignment result slot its caller is awaiting. ctx is the
// caller's context; entries whose caller has gone away are skipped at
// dispatch instead of spending quota.
type pendingCall struct {
	id         string
	ctx        context.Context
	op         Operation
	result     chan callResult
	enqueuedAt time.Time
}

func (c *pendingCall) resolve(resp *core.Response, err error) {
	// Single-assignment slot: the first write wins, later writes are
	// dropped, and an abandoned await never blocks the resolver.
	select {
	case c.result <- callResult{resp: resp, err: err}:
	default:
	}
}

// requestQueue is an unbounded concurrency-safe FIFO. Go channels are
// bounded, so the queue is a mutex-guarded slice with a wakeup channel
// the single consumer blocks on.
type requestQueue struct {
	mu     sync.Mutex
	items  []*pendingCall
	wake   chan struct{}
	closed bool
}

func newRequestQueue() *requestQueue {
	return &requestQueue{wake: make(chan struct{}, 1)}
}

// Enqueue appends a call in submission order. It never blocks beyond the
// queue lock and fails only after Drain has closed the queue.
func (q *requestQueue) Enqueue(call *pendingCall) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrSchedulerStopped
	}
	q.items = append(q.items, call)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue removes the oldest call, blocking up to timeout. The timeout
// exists only so the consumer notices shutdown promptly; it is not a
// request timeout.
func (q *requestQueue) Dequeue(timeout time.Duration) (*pendingCall, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			call := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return call, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-deadline.C:
			return nil, false
		}
	}
}

// Drain closes the queue and hands back every call still waiting, in
// submission order. Subsequent Enqueue calls fail.
func (q *requestQueue) Drain() []*pendingCall {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	drained := q.items
	q.items = nil
	return drained
}

// Closed reports whether Drain has shut the queue down.
func (q *requestQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len reports the number of queued, undispatched calls.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
