package scheduler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voidrunner/voidrunner/internal/core"
)

func TestClassifyThrottleEnvelope(t *testing.T) {
	state := NewRateLimitState()
	classifier := &Classifier{State: state}

	body := []byte(`{
		"error": {
			"message": "You have reached your API limit.",
			"code": 429,
			"data": {
				"limitBurst": 10,
				"limitPerSecond": 4,
				"remaining": 0,
				"reset": "2026-08-01T12:00:00Z",
				"retryAfter": 1.5
			}
		}
	}`)

	delay, throttled := classifier.Classify(&core.Response{StatusCode: http.StatusTooManyRequests, Body: body})
	require.True(t, throttled)
	require.Equal(t, 1500*time.Millisecond, delay)

	snap := state.Snapshot()
	require.Equal(t, 10, snap.BurstLimit)
	require.Equal(t, 4.0, snap.RatePerSecond)
	require.Equal(t, 0, snap.Remaining)
	require.NotNil(t, snap.ResetTime)
	require.InDelta(t, 1.5, snap.BackoffMultiplier, 1e-9)
}

func TestClassifyMalformedThrottleBody(t *testing.T) {
	state := NewRateLimitState()
	classifier := &Classifier{State: state}

	delay, throttled := classifier.Classify(&core.Response{
		StatusCode: http.StatusTooManyRequests,
		Body:       []byte("not json"),
	})
	require.True(t, throttled)
	require.Equal(t, time.Second, delay)

	// Known limits stay untouched on a parse failure.
	snap := state.Snapshot()
	require.Equal(t, DefaultBurstLimit, snap.BurstLimit)
	require.Equal(t, DefaultRatePerSecond, snap.RatePerSecond)
}

func TestClassifyEmptyThrottleBody(t *testing.T) {
	classifier := &Classifier{State: NewRateLimitState()}

	delay, throttled := classifier.Classify(&core.Response{StatusCode: http.StatusTooManyRequests})
	require.True(t, throttled)
	require.Equal(t, time.Second, delay)
}

func TestClassifyNonThrottleResetsMultiplier(t *testing.T) {
	state := NewRateLimitState()
	classifier := &Classifier{State: state}

	_, throttled := classifier.Classify(&core.Response{StatusCode: http.StatusTooManyRequests})
	require.True(t, throttled)
	require.Greater(t, state.BackoffMultiplier(), 1.0)

	// Any non-429 resets the multiplier, including logical errors.
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		state.ApplyThrottleSignal(ThrottleData{RetryAfter: 1})
		_, throttled = classifier.Classify(&core.Response{StatusCode: status})
		require.False(t, throttled)
		require.Equal(t, 1.0, state.BackoffMultiplier())
	}
}

func TestClassifyConsecutiveThrottleDelaysCompound(t *testing.T) {
	classifier := &Classifier{State: NewRateLimitState()}
	resp := &core.Response{
		StatusCode: http.StatusTooManyRequests,
		Body:       []byte(`{"error":{"message":"limit","code":429,"data":{"retryAfter":1.5}}}`),
	}

	delay, _ := classifier.Classify(resp)
	require.Equal(t, 1500*time.Millisecond, delay)

	delay, _ = classifier.Classify(resp)
	require.Equal(t, 2250*time.Millisecond, delay)
}
