package scheduler

import (
	"sync"
	"time"
)

// Defaults match the public SpaceTraders quota: a 30-request burst
// refilled at 2 requests per second.
const (
	DefaultBurstLimit    = 30
	DefaultRatePerSecond = 2.0
)

// ThrottleData is the parsed payload of a throttling response. Pointer
// fields distinguish "absent" from zero; absent fields leave the
// previously known value untouched.
type ThrottleData struct {
	LimitBurst     *int
	LimitPerSecond *float64
	Remaining      *int
	Reset          *time.Time
	RetryAfter     float64
}

// RateLimitState tracks the scheduler's current understanding of the
// remote quota. It is mutated only through ApplyThrottleSignal and
// ApplySuccess, both invoked from the classifier.
type RateLimitState struct {
	mu sync.Mutex

	burstLimit        int
	ratePerSecond     float64
	remaining         int
	resetTime         *time.Time
	backoffMultiplier float64
}

// NewRateLimitState returns state seeded with conservative defaults.
func NewRateLimitState() *RateLimitState {
	return &RateLimitState{
		burstLimit:        DefaultBurstLimit,
		ratePerSecond:     DefaultRatePerSecond,
		remaining:         DefaultBurstLimit,
		backoffMultiplier: 1.0,
	}
}

// ApplyThrottleSignal folds server-reported limits into the state and
// returns how long to wait before the next attempt: the server hint
// scaled by the adaptive multiplier. The multiplier grows on every
// consecutive throttle signal, capped at backoffCap.
func (s *RateLimitState) ApplyThrottleSignal(data ThrottleData) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.LimitBurst != nil && *data.LimitBurst > 0 {
		s.burstLimit = *data.LimitBurst
	}
	if data.LimitPerSecond != nil && *data.LimitPerSecond > 0 {
		s.ratePerSecond = *data.LimitPerSecond
	}
	if data.Remaining != nil {
		s.remaining = *data.Remaining
	}
	if data.Reset != nil {
		s.resetTime = data.Reset
	}

	delay := ThrottleDelay(data.RetryAfter, s.backoffMultiplier)
	s.backoffMultiplier = growMultiplier(s.backoffMultiplier)
	return delay
}

// ApplySuccess resets the adaptive multiplier. Any non-throttled response
// counts, including ordinary errors: only the throttle signal itself
// drives the multiplier.
func (s *RateLimitState) ApplySuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backoffMultiplier = 1.0
}

// SetLimits overrides the seeded quota, typically from configuration.
// Server-reported limits still take precedence once observed.
func (s *RateLimitState) SetLimits(burst int, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if burst > 0 {
		s.burstLimit = burst
		s.remaining = burst
	}
	if rate > 0 {
		s.ratePerSecond = rate
	}
}

// MinInterval is the pacing gap the processor enforces between dispatches.
func (s *RateLimitState) MinInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ratePerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.ratePerSecond)
}

// BackoffMultiplier returns the current adaptive multiplier.
func (s *RateLimitState) BackoffMultiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backoffMultiplier
}

// Snapshot returns a copy of the state for diagnostics.
func (s *RateLimitState) Snapshot() RateLimitSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := RateLimitSnapshot{
		BurstLimit:        s.burstLimit,
		RatePerSecond:     s.ratePerSecond,
		Remaining:         s.remaining,
		BackoffMultiplier: s.backoffMultiplier,
	}
	if s.resetTime != nil {
		reset := *s.resetTime
		snap.ResetTime = &reset
	}
	return snap
}

// RateLimitSnapshot is a read-only view of RateLimitState.
type RateLimitSnapshot struct {
	BurstLimit        int        `json:"burstLimit"`
	RatePerSecond     float64    `json:"ratePerSecond"`
	Remaining         int        `json:"remaining"`
	ResetTime         *time.Time `json:"resetTime,omitempty"`
	BackoffMultiplier float64    `json:"backoffMultiplier"`
}
