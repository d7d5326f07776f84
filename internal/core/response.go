package core

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the raw result of one remote round trip: a status code and
// the undecoded body. It is deliberately decoupled from net/http so the
// scheduler and its tests never depend on a transport.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response is in the success family.
func (r *Response) OK() bool {
	return r != nil && (r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated)
}

// APIError is the decoded remote error envelope.
type APIError struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// DecodeData unmarshals the `{"data": ...}` envelope into v.
func (r *Response) DecodeData(v any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("response has no data payload")
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// DecodeError extracts the structured error body, if any. A non-OK response
// with an undecodable body still yields an APIError carrying the status code.
func (r *Response) DecodeError() *APIError {
	if r == nil {
		return &APIError{Message: "no response"}
	}
	if len(r.Body) > 0 {
		var envelope errorEnvelope
		if err := json.Unmarshal(r.Body, &envelope); err == nil && envelope.Error != nil {
			return envelope.Error
		}
	}
	return &APIError{Message: fmt.Sprintf("request failed with status %d", r.StatusCode)}
}
