// Package api is a typed client for the SpaceTraders v2 REST API. Every
// operation is submitted through the shared scheduler, which owns pacing,
// throttle classification, and retries; the client never talks to the
// transport from a caller goroutine directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/scheduler"
)

// DefaultBaseURL is the public SpaceTraders v2 endpoint.
const DefaultBaseURL = "https://api.spacetraders.io/v2"

// Client issues SpaceTraders operations. BaseURL is overridable for
// tests; Token is the agent bearer token (empty until registration).
type Client struct {
	BaseURL    string
	Token      string
	HTTP       *http.Client
	Scheduler  *scheduler.Scheduler
	MaxRetries int
	Logger     *zap.Logger
}

// New creates a client bound to a scheduler.
func New(baseURL, token string, sched *scheduler.Scheduler) *Client {
	return &Client{
		BaseURL:   baseURL,
		Token:     token,
		Scheduler: sched,
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) maxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return scheduler.DefaultMaxRetries
}

// do marshals the body once, then submits an operation that builds a
// fresh request per attempt.
func (c *Client) do(ctx context.Context, method, path, task string, body any) (*core.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", task, err)
		}
		payload = data
	}

	op := func(ctx context.Context) (*core.Response, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL()+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.httpClient().Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &core.Response{StatusCode: resp.StatusCode, Body: data}, nil
	}

	return c.Scheduler.ExecuteWithRetry(ctx, op, task, c.maxRetries())
}

func (c *Client) get(ctx context.Context, path, task string) (*core.Response, error) {
	return c.do(ctx, http.MethodGet, path, task, nil)
}

func (c *Client) post(ctx context.Context, path, task string, body any) (*core.Response, error) {
	return c.do(ctx, http.MethodPost, path, task, body)
}
