package scheduler

import (
	"errors"
	"fmt"
)

// ErrSchedulerStopped resolves calls that were still queued when the
// scheduler shut down. They are never dispatched.
var ErrSchedulerStopped = errors.New("scheduler stopped before dispatch")

// RetriesExhaustedError reports a task whose every attempt failed with a
// transport error. It chains the last cause.
type RetriesExhaustedError struct {
	Task     string
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed after %d attempts: %v", e.Task, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s failed after %d attempts with no response", e.Task, e.Attempts)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }
