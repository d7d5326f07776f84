package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeBackoff(t *testing.T) {
	require.Equal(t, time.Second, ComputeBackoff(0))
	require.Equal(t, 2*time.Second, ComputeBackoff(1))
	require.Equal(t, 4*time.Second, ComputeBackoff(2))
	require.Equal(t, 32*time.Second, ComputeBackoff(5))
}

func TestComputeBackoffBounds(t *testing.T) {
	require.Equal(t, time.Second, ComputeBackoff(-3))
	require.Equal(t, maxRetryBackoff, ComputeBackoff(12))
	require.Equal(t, maxRetryBackoff, ComputeBackoff(63))
}

func TestThrottleDelay(t *testing.T) {
	require.Equal(t, 1500*time.Millisecond, ThrottleDelay(1.5, 1.0))
	require.Equal(t, 3*time.Second, ThrottleDelay(1.5, 2.0))

	// Non-positive hint falls back to one second.
	require.Equal(t, time.Second, ThrottleDelay(0, 1.0))
	require.Equal(t, 2*time.Second, ThrottleDelay(-1, 2.0))

	// A sub-1.0 multiplier never shrinks the server hint.
	require.Equal(t, 2*time.Second, ThrottleDelay(2, 0.5))
}
