// Package health exposes the liveness and readiness endpoints of the client's
// ops server. Readiness aggregates the local store and the shop backend, so it
// answers "could a command succeed right now" rather than just "is the process
// alive".
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Checker is a function that checks the health of a dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the JSON response returned by the health endpoints.
type Response struct {
	App       string                 `json:"app"`
	Status    Status                 `json:"status"`
	Uptime    string                 `json:"uptime"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single dependency check.
type CheckResult struct {
	Status  Status `json:"status"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// Handler provides the HTTP health endpoints for the ops server.
type Handler struct {
	app     string
	started time.Time

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHandler creates a health handler identifying itself as app.
func NewHandler(app string) *Handler {
	return &Handler{
		app:      app,
		started:  time.Now(),
		checkers: make(map[string]Checker),
	}
}

// Register adds a named dependency checker.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Getter performs an HTTP GET, matching the httpclient surface.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Backend returns a checker that considers the shop backend reachable when a
// GET against url answers with a 2xx.
func Backend(client Getter, url string) Checker {
	return func(ctx context.Context) error {
		resp, err := client.Get(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("backend answered status %d", resp.StatusCode)
		}
		return nil
	}
}

// LivenessHandler answers 200 whenever the process is running.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, http.StatusOK, Response{
			App:       h.app,
			Status:    StatusUp,
			Uptime:    time.Since(h.started).Round(time.Second).String(),
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs every registered checker and answers 200 or 503.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		h.mu.RLock()
		checkers := make(map[string]Checker, len(h.checkers))
		for k, v := range h.checkers {
			checkers[k] = v
		}
		h.mu.RUnlock()

		checks := make(map[string]CheckResult, len(checkers))
		overall := StatusUp

		for name, checker := range checkers {
			start := time.Now()
			err := checker(ctx)
			latency := time.Since(start).Round(time.Millisecond).String()

			if err != nil {
				checks[name] = CheckResult{Status: StatusDown, Latency: latency, Error: err.Error()}
				overall = StatusDown
			} else {
				checks[name] = CheckResult{Status: StatusUp, Latency: latency}
			}
		}

		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		h.write(w, code, Response{
			App:       h.app,
			Status:    overall,
			Uptime:    time.Since(h.started).Round(time.Second).String(),
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	}
}

func (h *Handler) write(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
