package scheduler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
)

// Classifier inspects one raw response, updates the shared rate limit
// state, and reports whether the caller must wait before retrying.
type Classifier struct {
	State  *RateLimitState
	Logger *zap.Logger
}

// throttleEnvelope mirrors the structured 429 error body. Any field may
// be absent.
type throttleEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Data    struct {
			LimitBurst     *int     `json:"limitBurst"`
			LimitPerSecond *float64 `json:"limitPerSecond"`
			Remaining      *int     `json:"remaining"`
			Reset          string   `json:"reset"`
			RetryAfter     *float64 `json:"retryAfter"`
		} `json:"data"`
	} `json:"error"`
}

// Classify applies one response to the rate limit state. For a throttling
// response it returns the delay to wait before the next attempt and true;
// for everything else it resets the adaptive multiplier and returns false.
func (c *Classifier) Classify(resp *core.Response) (time.Duration, bool) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		c.State.ApplySuccess()
		return 0, false
	}

	data := parseThrottleData(resp.Body)
	delay := c.State.ApplyThrottleSignal(data)

	c.logger().Info("rate limited by server",
		zap.Duration("wait", delay),
		zap.Float64("backoff_multiplier", c.State.BackoffMultiplier()))

	return delay, true
}

// parseThrottleData decodes the throttle envelope. Parsing is diagnostics
// only: a malformed or absent payload falls back to a one second retry
// hint and must never fail the call path.
func parseThrottleData(body []byte) ThrottleData {
	data := ThrottleData{RetryAfter: 1.0}
	if len(body) == 0 {
		return data
	}

	var envelope throttleEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return data
	}

	payload := envelope.Error.Data
	data.LimitBurst = payload.LimitBurst
	data.LimitPerSecond = payload.LimitPerSecond
	data.Remaining = payload.Remaining
	if payload.RetryAfter != nil && *payload.RetryAfter > 0 {
		data.RetryAfter = *payload.RetryAfter
	}
	if payload.Reset != "" {
		if reset, err := time.Parse(time.RFC3339, payload.Reset); err == nil {
			data.Reset = &reset
		}
	}
	return data
}

func (c *Classifier) logger() *zap.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
