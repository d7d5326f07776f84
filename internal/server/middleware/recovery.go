package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fulmenhq/gofulmen/errors"
)

// Recovery converts handler panics into structured 500 responses. The
// response is written here directly: the errors package imports this
// one for correlation IDs, so it cannot be called back into.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			value := recover()
			if value == nil {
				return
			}

			envelope := errors.NewErrorEnvelope("INTERNAL_ERROR", fmt.Sprintf("panic: %v", value)).
				WithCorrelationID(GetRequestID(r.Context()))
			envelope, _ = envelope.WithContext(map[string]interface{}{
				"stack_trace": string(debug.Stack()),
			})
			envelope, _ = envelope.WithSeverity(errors.SeverityCritical)

			body := map[string]map[string]string{
				"error": {
					"code":       envelope.Code,
					"message":    envelope.Message,
					"request_id": envelope.CorrelationID,
				},
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(body)
		}()

		next.ServeHTTP(w, r)
	})
}
