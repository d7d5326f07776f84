package scheduler

import "time"

const (
	backoffGrowth = 1.5
	backoffCap    = 5.0

	// maxRetryBackoff bounds the exponential sleep between attempts so a
	// large maxRetries cannot park a caller for minutes.
	maxRetryBackoff = 60 * time.Second
)

// ComputeBackoff returns the exponential delay slept before retrying
// after attempt n (0-indexed): 2^n seconds, bounded by maxRetryBackoff.
// It is independent of the throttle multiplier, which only scales
// server-hinted delays.
func ComputeBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d <= 0 || d > maxRetryBackoff {
		return maxRetryBackoff
	}
	return d
}

// ThrottleDelay scales a server retry hint (seconds) by the adaptive
// multiplier. A non-positive hint falls back to one second, mirroring the
// classifier's parse-failure default.
func ThrottleDelay(retryAfterSeconds, multiplier float64) time.Duration {
	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 1.0
	}
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	return time.Duration(retryAfterSeconds * multiplier * float64(time.Second))
}

func growMultiplier(multiplier float64) float64 {
	grown := multiplier * backoffGrowth
	if grown > backoffCap {
		return backoffCap
	}
	return grown
}
