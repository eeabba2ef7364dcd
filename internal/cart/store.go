// Package cart implements the client-side shopping cart. The in-memory cart
// is a cache of the durable snapshot; a mutation is adopted only once it has
// been written through to the store, then the view re-renders.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	"github.com/olmosO/doggys/internal/view"
	apperrors "github.com/olmosO/doggys/pkg/errors"
	"github.com/olmosO/doggys/pkg/logger"
)

// Store owns the cart state for one client profile. Construct one per
// process with an injected persistence boundary and view binding; operations
// mutate explicit state, never package globals.
type Store struct {
	cart    domain.Cart
	repo    repository.CartRepository
	session repository.SessionRepository
	view    view.View
	logger  *slog.Logger
}

// NewStore creates a cart store. Call Load before the first mutation to
// hydrate from the persisted snapshot.
func NewStore(repo repository.CartRepository, session repository.SessionRepository, v view.View, logger *slog.Logger) *Store {
	return &Store{
		repo:    repo,
		session: session,
		view:    v,
		logger:  logger,
	}
}

// Load hydrates the cart from the persisted snapshot. A missing or
// unparsable snapshot degrades to an empty cart, never an error, so a
// corrupted store cannot lock the user out of shopping.
func (s *Store) Load(ctx context.Context) {
	lines, err := s.repo.Get(ctx)
	if err != nil {
		lines = nil
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WithContext(ctx, s.logger).WarnContext(ctx, "stored cart unreadable, starting empty",
				slog.String("error", err.Error()),
			)
		}
	}

	s.cart = domain.Cart{Lines: lines}
	s.view.UpdateItemCount(s.cart.ItemCount())
}

// AddItem adds one unit of a product. When requireSession is set and no user
// is signed in, the cart is left untouched and the caller gets
// ErrSessionRequired. An existing line for the same product merges in place;
// otherwise the product appends as a new line with quantity 1.
func (s *Store) AddItem(ctx context.Context, product domain.Product, requireSession bool) error {
	if requireSession && !s.hasSession(ctx) {
		return apperrors.SessionRequired("agregar productos al carrito")
	}

	lines := s.cloneLines()
	if i := s.cart.FindLine(product.ID); i >= 0 {
		lines[i].Quantity++
		lines[i].Recalculate()
	} else {
		line := domain.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			ImageRef:  product.ImageRef,
			Quantity:  1,
		}
		line.Recalculate()
		lines = append(lines, line)
	}

	if err := s.commit(ctx, lines); err != nil {
		return err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "product added to cart",
		slog.Int64("producto_id", product.ID),
		slog.Int("lines", len(s.cart.Lines)),
	)

	s.view.UpdateItemCount(s.cart.ItemCount())
	s.view.Notify(fmt.Sprintf("%s agregado al carrito", product.Name))
	return nil
}

// ChangeQuantity adjusts a line's quantity by delta, clamped to a minimum of
// 1. Dropping below one unit never happens here; removal is an explicit,
// confirmed operation.
func (s *Store) ChangeQuantity(ctx context.Context, index int, delta int) error {
	if index < 0 || index >= len(s.cart.Lines) {
		return apperrors.IndexOutOfRange(index, len(s.cart.Lines))
	}

	lines := s.cloneLines()
	line := &lines[index]
	line.Quantity += delta
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.Recalculate()

	if err := s.commit(ctx, lines); err != nil {
		return err
	}

	s.render()
	return nil
}

// RemoveItem deletes a line after an affirmative confirmation. A declined
// confirmation leaves the cart untouched and is not an error.
func (s *Store) RemoveItem(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.cart.Lines) {
		return apperrors.IndexOutOfRange(index, len(s.cart.Lines))
	}

	name := s.cart.Lines[index].Name
	if !s.view.Confirm(fmt.Sprintf("¿Eliminar %s del carrito?", name)) {
		return nil
	}

	lines := s.cloneLines()
	lines = append(lines[:index], lines[index+1:]...)

	if err := s.commit(ctx, lines); err != nil {
		return err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "product removed from cart",
		slog.String("nombre", name),
		slog.Int("lines", len(s.cart.Lines)),
	)

	s.view.UpdateItemCount(s.cart.ItemCount())
	s.render()
	return nil
}

// Clear empties the cart and the persisted snapshot. Invoked after a
// completed checkout.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.commit(ctx, nil); err != nil {
		return err
	}

	s.view.UpdateItemCount(0)
	return nil
}

// Total returns the sum of line subtotals.
func (s *Store) Total() int64 {
	return s.cart.Total()
}

// Lines returns the current lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	return s.cart.Lines
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.cart.IsEmpty()
}

// Render draws the current lines and total through the view.
func (s *Store) Render() {
	s.render()
}

func (s *Store) render() {
	s.view.RenderLines(s.cart.Lines)
	s.view.RenderTotal(s.cart.Total())
}

// commit writes the candidate lines through to the store and adopts them only
// when the write succeeds. A failed save leaves the in-memory cart exactly as
// it was, so memory and the snapshot cannot diverge.
func (s *Store) commit(ctx context.Context, lines []domain.CartLine) error {
	if err := s.repo.Save(ctx, lines); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.cart.Lines = lines
	return nil
}

func (s *Store) cloneLines() []domain.CartLine {
	lines := make([]domain.CartLine, len(s.cart.Lines))
	copy(lines, s.cart.Lines)
	return lines
}

func (s *Store) hasSession(ctx context.Context) bool {
	id, err := s.session.Get(ctx, repository.KeyUserID)
	return err == nil && id != ""
}
