package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTimeout is how long a session survives without user actions.
const DefaultIdleTimeout = 30 * time.Minute

// Watchdog signs the session out after a period of inactivity. Every user
// action calls Touch to reset the timer. The watchdog runs until its context
// is cancelled.
type Watchdog struct {
	timeout time.Duration
	onIdle  func(context.Context)
	logger  *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatchdog creates a watchdog. onIdle runs when the idle limit elapses
// without a Touch; a non-positive timeout falls back to the default.
func NewWatchdog(timeout time.Duration, onIdle func(context.Context), logger *slog.Logger) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	return &Watchdog{
		timeout: timeout,
		onIdle:  onIdle,
		logger:  logger,
	}
}

// Start arms the timer and blocks until ctx is cancelled. Run it in its own
// goroutine.
func (w *Watchdog) Start(ctx context.Context) {
	w.mu.Lock()
	w.timer = time.NewTimer(w.timeout)
	timer := w.timer
	w.mu.Unlock()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			w.logger.InfoContext(ctx, "session idle limit reached, signing out",
				slog.Duration("timeout", w.timeout),
			)
			w.onIdle(ctx)
			timer.Reset(w.timeout)
		}
	}
}

// Touch resets the idle timer. Call it on every user action.
func (w *Watchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer == nil {
		return
	}
	if !w.timer.Stop() {
		select {
		case <-w.timer.C:
		default:
		}
	}
	w.timer.Reset(w.timeout)
}
