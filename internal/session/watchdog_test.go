package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchdog_FiresAfterIdle(t *testing.T) {
	var fired atomic.Int32
	w := NewWatchdog(30*time.Millisecond, func(context.Context) { fired.Add(1) }, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	assert.Eventually(t, func() bool { return fired.Load() >= 1 },
		time.Second, 5*time.Millisecond)
}

func TestWatchdog_TouchResetsTimer(t *testing.T) {
	var fired atomic.Int32
	w := NewWatchdog(80*time.Millisecond, func(context.Context) { fired.Add(1) }, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Keep touching at half the idle limit; the watchdog must stay quiet.
	for i := 0; i < 5; i++ {
		time.Sleep(40 * time.Millisecond)
		w.Touch()
	}

	assert.Zero(t, fired.Load())
}

func TestWatchdog_StopsOnCancel(t *testing.T) {
	var fired atomic.Int32
	w := NewWatchdog(20*time.Millisecond, func(context.Context) { fired.Add(1) }, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not stop on context cancellation")
	}
}

func TestWatchdog_TouchBeforeStart(t *testing.T) {
	w := NewWatchdog(time.Minute, func(context.Context) {}, newTestLogger())

	// Must not panic when the timer is not armed yet.
	w.Touch()
}

func TestNewWatchdog_DefaultTimeout(t *testing.T) {
	w := NewWatchdog(0, func(context.Context) {}, newTestLogger())
	assert.Equal(t, DefaultIdleTimeout, w.timeout)
}
