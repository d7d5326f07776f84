package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
)

// HealthChecker reports whether one component is usable.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthCheckerFunc adapts a plain function to the HealthChecker interface.
type HealthCheckerFunc func(ctx context.Context) error

func (f HealthCheckerFunc) CheckHealth(ctx context.Context) error {
	return f(ctx)
}

// HealthResponse is the aggregate health payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProbeResponse is the payload of the individual probes.
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthManager runs registered checkers and serves the probe handlers.
type HealthManager struct {
	checkers map[string]HealthChecker
	version  string
}

func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		version:  version,
	}
}

// RegisterChecker adds a named checker. Not safe to call once the
// server is accepting requests.
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.checkers[name] = checker
}

// runChecks evaluates every checker, stopping early on ctx expiry.
func (hm *HealthManager) runChecks(ctx context.Context) (map[string]string, string) {
	checks := make(map[string]string)
	overall := "healthy"

	for name, checker := range hm.checkers {
		if ctx.Err() != nil {
			checks[name] = "timeout"
			if overall == "healthy" {
				overall = "degraded"
			}
			continue
		}
		if err := checker.CheckHealth(ctx); err != nil {
			checks[name] = "unhealthy"
			overall = "unhealthy"
		} else {
			checks[name] = "healthy"
		}
	}

	return checks, overall
}

// HealthHandler serves the aggregate health check.
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, status := hm.runChecks(checkCtx)
	if status == "unhealthy" {
		respondWithError(w, r, unhealthyEnvelope("aggregate health check failed", "", status, checks))
		return
	}

	writeJSON(w, HealthResponse{
		Status:    status,
		Version:   hm.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// LivenessHandler answers for the process itself; it runs no checkers
// so a broken dependency never gets the process killed.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ProbeResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// ReadinessHandler reports whether the process should receive traffic.
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, status := hm.runChecks(checkCtx)
	if status == "unhealthy" {
		respondWithError(w, r, unhealthyEnvelope("readiness probe failed", "ready", status, checks))
		return
	}

	writeJSON(w, ProbeResponse{Status: status, Timestamp: time.Now().UTC()})
}

func unhealthyEnvelope(message, probe, status string, checks map[string]string) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", message)

	details := map[string]interface{}{"status": status}
	if probe != "" {
		details["probe"] = probe
	}
	if len(checks) > 0 {
		details["checks"] = checks
	}
	envelope = envelope.WithDetails(details)

	var failing []string
	for name, result := range checks {
		if result != "healthy" {
			failing = append(failing, name)
		}
	}
	contextData := map[string]interface{}{"status": status}
	if len(failing) > 0 {
		contextData["unhealthy_checks"] = failing
	}
	envelope, _ = envelope.WithContext(contextData)

	return envelope
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
