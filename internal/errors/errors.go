// Package errors centralizes HTTP error envelopes and responses for
// the status server.
package errors

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/observability"
	"github.com/voidrunner/voidrunner/internal/server/middleware"
)

// Constructors for the error codes the status server emits.

func NewNotFoundError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope("NOT_FOUND", message)
}

func NewMethodNotAllowedError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope("METHOD_NOT_ALLOWED", message)
}

func NewInternalError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope("INTERNAL_ERROR", message)
}

func NewServiceUnavailableError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", message)
}

func NewDatabaseError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope("DATABASE_ERROR", message)
}

func NewExternalServiceError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope("EXTERNAL_SERVICE_ERROR", message)
}

// httpStatusByCode maps envelope codes to HTTP statuses. Codes not
// listed fall back to 500.
var httpStatusByCode = map[string]int{
	"NOT_FOUND":              http.StatusNotFound,
	"METHOD_NOT_ALLOWED":     http.StatusMethodNotAllowed,
	"EXTERNAL_SERVICE_ERROR": http.StatusBadGateway,
	"SERVICE_UNAVAILABLE":    http.StatusServiceUnavailable,
}

// HTTPStatusFromCode resolves the HTTP status for an envelope code.
func HTTPStatusFromCode(code string) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// EnsureEnvelope normalizes any error into an ErrorEnvelope.
func EnsureEnvelope(err error) *errors.ErrorEnvelope {
	if envelope, ok := err.(*errors.ErrorEnvelope); ok && envelope != nil {
		return envelope
	}

	if err == nil {
		env := errors.NewErrorEnvelope("INTERNAL_ERROR", "unexpected nil error")
		env, _ = env.WithSeverity(errors.SeverityCritical)
		return env
	}

	env := errors.NewErrorEnvelope("INTERNAL_ERROR", "unexpected error")
	env, _ = env.WithContext(map[string]interface{}{"wrapped_error": err.Error()})
	env, _ = env.WithSeverity(errors.SeverityHigh)
	return env
}

// EnsureCorrelationID fills in a correlation ID, taking the request ID
// from the context when the middleware stored one.
func EnsureCorrelationID(envelope *errors.ErrorEnvelope, ctx context.Context) *errors.ErrorEnvelope {
	if envelope == nil || envelope.CorrelationID != "" {
		return envelope
	}

	id := ""
	if ctx != nil {
		id = middleware.GetRequestID(ctx)
	}
	if id == "" {
		id = "fallback-" + errors.GenerateCorrelationID()
	}
	return envelope.WithCorrelationID(id)
}

// HTTPErrorDetail is the error body returned to callers.
type HTTPErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HTTPErrorResponse wraps HTTPErrorDetail in the standard envelope shape.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// RespondWithError normalizes err and writes the JSON error response.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	RespondWithEnvelope(w, r, EnsureEnvelope(err))
}

// RespondWithEnvelope finalizes the envelope, logs it, and writes it.
func RespondWithEnvelope(w http.ResponseWriter, r *http.Request, envelope *errors.ErrorEnvelope) {
	if w == nil {
		return
	}

	var ctx context.Context
	if r != nil {
		ctx = r.Context()
	}
	envelope = EnsureCorrelationID(envelope, ctx)

	status := HTTPStatusFromCode(envelope.Code)
	logHTTPError(envelope, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{Error: HTTPErrorDetail{
		Code:      envelope.Code,
		Message:   envelope.Message,
		Details:   mergedDetails(envelope),
		RequestID: envelope.CorrelationID,
	}})
}

// mergedDetails combines Details and Context, Details winning on key
// collisions.
func mergedDetails(envelope *errors.ErrorEnvelope) map[string]interface{} {
	merged := make(map[string]interface{}, len(envelope.Details)+len(envelope.Context))
	for key, value := range envelope.Context {
		merged[key] = value
	}
	for key, value := range envelope.Details {
		merged[key] = value
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func logHTTPError(envelope *errors.ErrorEnvelope, status int) {
	if observability.ServerLogger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("error_code", envelope.Code),
		zap.Int("http_status", status),
	}
	if envelope.CorrelationID != "" {
		fields = append(fields, zap.String("request_id", envelope.CorrelationID))
	}

	switch envelope.Severity {
	case errors.SeverityCritical, errors.SeverityHigh:
		observability.ServerLogger.Error(envelope.Message, fields...)
	case errors.SeverityMedium:
		observability.ServerLogger.Warn(envelope.Message, fields...)
	default:
		observability.ServerLogger.Info(envelope.Message, fields...)
	}
}
