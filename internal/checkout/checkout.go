// Package checkout hands the cart off to the backend as an order. The flow
// is two sequential calls: create the pedido, then transition it to pagado.
// The cart is cleared only after both calls succeed, so any failure leaves
// the user free to retry with the cart intact.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	apperrors "github.com/olmosO/doggys/pkg/errors"
	"github.com/olmosO/doggys/pkg/logger"
)

// Cart is the slice of the cart store checkout needs.
type Cart interface {
	Lines() []domain.CartLine
	IsEmpty() bool
	Clear(ctx context.Context) error
}

// Session resolves the signed-in user.
type Session interface {
	UserID(ctx context.Context) (int64, error)
}

// OrderAPI is the backend surface of the flow.
type OrderAPI interface {
	CreateOrder(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	CreateReceipt(ctx context.Context, orderID int64) (*domain.Receipt, error)
}

// Service runs the checkout handoff.
type Service struct {
	cart    Cart
	session Session
	api     OrderAPI
	store   repository.SessionRepository
	logger  *slog.Logger
}

// NewService creates a checkout service.
func NewService(cart Cart, session Session, api OrderAPI, store repository.SessionRepository, logger *slog.Logger) *Service {
	return &Service{
		cart:    cart,
		session: session,
		api:     api,
		store:   store,
		logger:  logger,
	}
}

// Checkout places the current cart as an order and marks it paid.
//
// Order creation is not idempotent: if the pagado transition fails after the
// pedido was created, a manual retry creates a second pedido. The persisted
// pedido_id lets the user find the first one.
func (s *Service) Checkout(ctx context.Context) (*domain.Order, error) {
	if s.cart.IsEmpty() {
		return nil, apperrors.EmptyCart()
	}

	userID, err := s.session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	// Only product id and quantity travel; the backend prices the order.
	lines := s.cart.Lines()
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.api.CreateOrder(ctx, userID, items)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.store.Set(ctx, repository.KeyOrderID, strconv.FormatInt(order.ID, 10)); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "failed to persist pedido_id",
			slog.Int64("pedido_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.api.UpdateOrderStatus(ctx, order.ID, domain.StatusPagado); err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	order.Status = domain.StatusPagado

	if err := s.cart.Clear(ctx); err != nil {
		// The order went through; a stale cart snapshot is recoverable.
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "order placed but cart not cleared",
			slog.Int64("pedido_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "checkout completed",
		slog.Int64("pedido_id", order.ID),
		slog.Int64("usuario_id", userID),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

// Cancel cancels one of the signed-in user's orders. An order can only be
// cancelled while the kitchen has not started on it, meaning estado pendiente
// or pagado; anything later is refused locally without a status call.
func (s *Service) Cancel(ctx context.Context, orderID int64) error {
	userID, err := s.session.UserID(ctx)
	if err != nil {
		return err
	}

	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.UserID != userID {
		return apperrors.Unauthorized(fmt.Sprintf("el pedido %d no pertenece a su cuenta", orderID))
	}
	if !order.Status.Cancellable() {
		return apperrors.InvalidInput(fmt.Sprintf("el pedido %d está %s y ya no puede cancelarse", orderID, order.Status))
	}

	if err := s.api.UpdateOrderStatus(ctx, orderID, domain.StatusCancelado); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "order cancelled",
		slog.Int64("pedido_id", orderID),
		slog.Int64("usuario_id", userID),
		slog.String("previous_estado", string(order.Status)),
	)

	return nil
}

// Receipt issues the boleta for a placed order.
func (s *Service) Receipt(ctx context.Context, orderID int64) (*domain.Receipt, error) {
	receipt, err := s.api.CreateReceipt(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "receipt issued",
		slog.Int64("boleta_id", receipt.ID),
		slog.Int64("pedido_id", orderID),
	)

	return receipt, nil
}

// LastOrderID returns the pedido_id persisted by the most recent checkout,
// or ErrNotFound when none exists.
func (s *Service) LastOrderID(ctx context.Context) (int64, error) {
	raw, err := s.store.Get(ctx, repository.KeyOrderID)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}
