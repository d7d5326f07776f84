package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
)

// retryContext tracks one ExecuteWithRetry invocation for final
// reporting. taskName is diagnostics only.
type retryContext struct {
	taskName   string
	attempt    int
	maxRetries int
	lastErr    error
	lastResp   *core.Response
}

// ExecuteWithRetry runs one logical operation through the queue with a
// bounded retry loop. maxRetries bounds total attempts; a value below one
// means exactly one attempt. The call resolves to either a response or a
// terminal error, never both:
//
//   - transport error: exponential backoff (2^attempt seconds), then a
//     RetriesExhaustedError chaining the last cause;
//   - throttled (429): wait the classifier's delay and retry; every loop
//     iteration, throttled or not, consumes one attempt;
//   - 200/201: returned immediately;
//   - 5xx: exponential backoff; exhaustion surfaces the last response
//     as-is rather than an error;
//   - any other status: returned immediately, no retry.
func (s *Scheduler) ExecuteWithRetry(ctx context.Context, op Operation, taskName string, maxRetries int) (*core.Response, error) {
	attempts := maxRetries
	if attempts < 1 {
		attempts = 1
	}

	started := s.clock()
	rc := &retryContext{taskName: taskName, maxRetries: attempts}
	resp, err := s.retryLoop(ctx, op, rc)
	s.report(rc, resp, err, s.clock().Sub(started))
	return resp, err
}

func (s *Scheduler) retryLoop(ctx context.Context, op Operation, rc *retryContext) (*core.Response, error) {
	for rc.attempt = 0; rc.attempt < rc.maxRetries; rc.attempt++ {
		if rc.attempt > 0 {
			s.retried.Add(1)
		}

		resp, err := s.submit(ctx, op)
		if err != nil {
			// Cancellation and shutdown are terminal, not retryable.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrSchedulerStopped) {
				return nil, err
			}
			rc.lastErr = err
			s.logger.Warn("task transport error",
				zap.String("task", rc.taskName),
				zap.Int("attempt", rc.attempt+1),
				zap.Int("max_retries", rc.maxRetries),
				zap.Error(err))
			if rc.attempt+1 < rc.maxRetries {
				if serr := s.sleep(ctx, ComputeBackoff(rc.attempt)); serr != nil {
					return nil, serr
				}
			}
			continue
		}

		rc.lastResp = resp

		if delay, throttledResp := s.classifier.Classify(resp); throttledResp {
			s.throttled.Add(1)
			if serr := s.sleep(ctx, delay); serr != nil {
				return nil, serr
			}
			continue
		}

		switch {
		case resp.OK():
			return resp, nil
		case resp.StatusCode >= 500 && resp.StatusCode < 600:
			s.logger.Warn("task failed with server error",
				zap.String("task", rc.taskName),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", rc.attempt+1),
				zap.Int("max_retries", rc.maxRetries))
			if rc.attempt+1 < rc.maxRetries {
				if serr := s.sleep(ctx, ComputeBackoff(rc.attempt)); serr != nil {
					return nil, serr
				}
				continue
			}
			// Exhausted: a persistent server error is handed back as a
			// failed response, not an exception.
			return resp, nil
		default:
			// Non-retryable client error; retrying would not help and
			// could mask a caller bug.
			return resp, nil
		}
	}

	if rc.lastErr != nil {
		return nil, &RetriesExhaustedError{Task: rc.taskName, Attempts: rc.maxRetries, Err: rc.lastErr}
	}
	if rc.lastResp != nil {
		return rc.lastResp, nil
	}
	return nil, &RetriesExhaustedError{Task: rc.taskName, Attempts: rc.maxRetries}
}

func (s *Scheduler) report(rc *retryContext, resp *core.Response, err error, elapsed time.Duration) {
	if s.onResult == nil {
		return
	}
	record := Record{
		Task:     rc.taskName,
		Attempts: rc.attempt + 1,
		OK:       err == nil && resp.OK(),
		Duration: elapsed,
		At:       s.clock(),
	}
	if record.Attempts > rc.maxRetries {
		record.Attempts = rc.maxRetries
	}
	if resp != nil {
		record.StatusCode = resp.StatusCode
	}
	s.onResult(record)
}
