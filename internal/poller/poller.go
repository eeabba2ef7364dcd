// Package poller watches an order's estado while its view is visible. It
// replaces an unconditional fixed timer with a task that starts and stops
// with the view lifetime and is cancellable through its context.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/pkg/logger"
)

// DefaultInterval is the polling cadence.
const DefaultInterval = 5 * time.Second

// OrderGetter fetches one order.
type OrderGetter interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// Poller polls one order and reports status transitions.
type Poller struct {
	api      OrderGetter
	interval time.Duration
	logger   *slog.Logger

	// onChange runs on every observed estado transition, including the
	// first observation.
	onChange func(order *domain.Order)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a poller. A non-positive interval falls back to the default.
func New(api OrderGetter, interval time.Duration, onChange func(order *domain.Order), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		api:      api,
		interval: interval,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins polling the given order. A previous run for another order is
// stopped first. Returns immediately; polling happens in a goroutine.
func (p *Poller) Start(ctx context.Context, orderID int64) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx, orderID)
}

// Stop cancels the current run and waits for it to finish. Safe to call when
// nothing is running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context, orderID int64) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastStatus domain.OrderStatus
	log := logger.WithContext(ctx, p.logger)

	poll := func() {
		order, err := p.api.GetOrder(ctx, orderID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WarnContext(ctx, "order poll failed",
				slog.Int64("pedido_id", orderID),
				slog.String("error", err.Error()),
			)
			return
		}

		if order.Status != lastStatus {
			log.InfoContext(ctx, "order status changed",
				slog.Int64("pedido_id", orderID),
				slog.String("from", string(lastStatus)),
				slog.String("to", string(order.Status)),
			)
			lastStatus = order.Status
			p.onChange(order)
		}

		if order.Status.Terminal() {
			log.InfoContext(ctx, "order reached terminal status, polling stopped",
				slog.Int64("pedido_id", orderID),
				slog.String("estado", string(order.Status)),
			)
			p.mu.Lock()
			if p.cancel != nil {
				p.cancel()
			}
			p.mu.Unlock()
		}
	}

	poll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
