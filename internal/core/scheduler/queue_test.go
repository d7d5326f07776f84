package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := newRequestQueue()

	for i := 0; i < 5; i++ {
		call := &pendingCall{id: string(rune('a' + i)), result: make(chan callResult, 1)}
		require.NoError(t, q.Enqueue(call))
	}
	require.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		call, ok := q.Dequeue(time.Second)
		require.True(t, ok)
		require.Equal(t, string(rune('a'+i)), call.id)
	}
	require.Equal(t, 0, q.Len())
}

func TestQueueDequeueTimeout(t *testing.T) {
	q := newRequestQueue()

	start := time.Now()
	call, ok := q.Dequeue(20 * time.Millisecond)
	require.False(t, ok)
	require.Nil(t, call)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueueDequeueWakesOnEnqueue(t *testing.T) {
	q := newRequestQueue()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = q.Enqueue(&pendingCall{id: "late", result: make(chan callResult, 1)})
	}()

	call, ok := q.Dequeue(time.Second)
	require.True(t, ok)
	require.Equal(t, "late", call.id)
}

func TestQueueDrainCloses(t *testing.T) {
	q := newRequestQueue()
	require.NoError(t, q.Enqueue(&pendingCall{id: "one", result: make(chan callResult, 1)}))
	require.NoError(t, q.Enqueue(&pendingCall{id: "two", result: make(chan callResult, 1)}))

	drained := q.Drain()
	require.Len(t, drained, 2)
	require.Equal(t, "one", drained[0].id)
	require.Equal(t, "two", drained[1].id)

	err := q.Enqueue(&pendingCall{id: "three", result: make(chan callResult, 1)})
	require.ErrorIs(t, err, ErrSchedulerStopped)
	require.Equal(t, 0, q.Len())
}
