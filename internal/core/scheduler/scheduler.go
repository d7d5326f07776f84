// Package scheduler serializes all outbound API calls through a single
// rate-limited dispatch loop. Callers submit operations concurrently;
// exactly one consumer goroutine dispatches them FIFO, pacing dispatches
// to the remote quota, classifying throttle responses, and retrying
// transient failures without losing caller-visible error semantics.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
)

const (
	// DefaultMaxRetries bounds attempts when a caller passes no explicit
	// budget.
	DefaultMaxRetries = 3

	// defaultPollInterval is how long the consumer blocks on an empty
	// queue before re-checking for shutdown.
	defaultPollInterval = time.Second

	// errorPause keeps an internal processor fault from spinning the loop.
	errorPause = time.Second
)

// SleepFunc suspends for d or until ctx is cancelled. Injectable so
// pacing and backoff tests run without real time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Record describes one completed ExecuteWithRetry invocation, for the
// request journal.
type Record struct {
	Task       string
	StatusCode int
	Attempts   int
	OK         bool
	Duration   time.Duration
	At         time.Time
}

// Options configures a Scheduler. The zero value is usable.
type Options struct {
	Logger       *zap.Logger
	Clock        func() time.Time
	Sleep        SleepFunc
	State        *RateLimitState
	PollInterval time.Duration

	// OnResult, when set, receives a Record after every completed
	// ExecuteWithRetry invocation.
	OnResult func(Record)
}

// Scheduler owns the request queue, the single consumer goroutine, and
// the shared rate limit state. Construct once with New, pass by handle
// to every caller.
type Scheduler struct {
	state      *RateLimitState
	classifier *Classifier
	queue      *requestQueue
	logger     *zap.Logger
	clock      func() time.Time
	sleep      SleepFunc
	poll       time.Duration
	onResult   func(Record)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// lastDispatch is touched only by the consumer goroutine, after each
	// call completes, so a slow call naturally delays the next dispatch.
	lastDispatch time.Time

	dispatched atomic.Int64
	throttled  atomic.Int64
	retried    atomic.Int64
	cancelled  atomic.Int64
}

// New creates a stopped scheduler.
func New(opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}
	state := opts.State
	if state == nil {
		state = NewRateLimitState()
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	return &Scheduler{
		state:      state,
		classifier: &Classifier{State: state, Logger: logger},
		queue:      newRequestQueue(),
		logger:     logger,
		clock:      clock,
		sleep:      sleep,
		poll:       poll,
		onResult:   opts.OnResult,
	}
}

// Start spawns the consumer loop. Idempotent, and a no-op once Stop has
// closed the queue: a consumer over a closed queue would never dispatch.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.queue.Closed() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	go s.run(ctx)
}

// Stop halts the consumer and drains the queue, resolving every
// still-queued call with ErrSchedulerStopped. Queued calls are skipped,
// never dispatched. Idempotent; in-flight dispatch completes first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	// Close the queue before waiting on the consumer: anything still
	// queued here must never reach the wire, even if the in-flight
	// dispatch takes a while to finish.
	drained := s.queue.Drain()
	for _, call := range drained {
		call.resolve(nil, ErrSchedulerStopped)
	}
	s.cancelled.Add(int64(len(drained)))

	cancel()
	<-done

	s.logger.Info("queue processor stopped", zap.Int("cancelled", len(drained)))
}

// Running reports whether the consumer loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stats returns a snapshot of scheduler counters and rate limit state.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Dispatched: s.dispatched.Load(),
		Throttled:  s.throttled.Load(),
		Retried:    s.retried.Load(),
		Cancelled:  s.cancelled.Load(),
		QueueDepth: s.queue.Len(),
		RateLimit:  s.state.Snapshot(),
	}
}

// Stats is a point-in-time view of scheduler activity.
type Stats struct {
	Dispatched int64             `json:"dispatched"`
	Throttled  int64             `json:"throttled"`
	Retried    int64             `json:"retried"`
	Cancelled  int64             `json:"cancelled"`
	QueueDepth int               `json:"queueDepth"`
	RateLimit  RateLimitSnapshot `json:"rateLimit"`
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		if ctx.Err() != nil {
			return
		}
		call, ok := s.queue.Dequeue(s.poll)
		if !ok {
			continue
		}
		s.dispatch(ctx, call)
	}
}

// dispatch paces, invokes, and resolves exactly one call. A fault here
// (panic in the operation or in processor logic) must not crash the
// consumer loop; the call is resolved with the fault and the loop pauses
// briefly.
func (s *Scheduler) dispatch(ctx context.Context, call *pendingCall) {
	defer func() {
		if r := recover(); r != nil {
			call.resolve(nil, fmt.Errorf("dispatch failure: %v", r))
			s.logger.Error("queue processor recovered from panic", zap.Any("panic", r))
			_ = s.sleep(ctx, errorPause)
		}
	}()

	if ctx.Err() != nil {
		call.resolve(nil, ErrSchedulerStopped)
		return
	}

	// The caller gave up while the entry sat in the queue. Spending a
	// paced slot on it would waste quota nobody is waiting on.
	if call.ctx != nil && call.ctx.Err() != nil {
		call.resolve(nil, call.ctx.Err())
		s.cancelled.Add(1)
		return
	}

	interval := s.state.MinInterval()
	if !s.lastDispatch.IsZero() {
		if elapsed := s.clock().Sub(s.lastDispatch); elapsed < interval {
			if err := s.sleep(ctx, interval-elapsed); err != nil {
				call.resolve(nil, ErrSchedulerStopped)
				return
			}
		}
	}

	resp, err := call.op(ctx)
	call.resolve(resp, err)
	s.lastDispatch = s.clock()
	s.dispatched.Add(1)
}

// submit enqueues one attempt and awaits its result. Enqueuing never
// blocks behind in-flight dispatch; only the await does.
func (s *Scheduler) submit(ctx context.Context, op Operation) (*core.Response, error) {
	s.Start()

	call := &pendingCall{
		id:         uuid.NewString(),
		ctx:        ctx,
		op:         op,
		result:     make(chan callResult, 1),
		enqueuedAt: s.clock(),
	}
	if err := s.queue.Enqueue(call); err != nil {
		return nil, err
	}

	select {
	case res := <-call.result:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
