package repository

import (
	"context"

	"github.com/olmosO/doggys/internal/domain"
)

// Keys of the durable local store. String-valued, scoped to the local profile,
// no expiry.
const (
	KeyCart          = "carrito"
	KeyUserID        = "usuario_id"
	KeyUserName      = "usuario_nombre"
	KeyUserEmail     = "usuario_email"
	KeyUserDireccion = "usuario_direccion"
	KeyUserTelefono  = "usuario_telefono"
	KeyIsAdmin       = "is_admin"
	KeyOrderID       = "pedido_id"
)

// CartRepository persists the authoritative cart snapshot. The in-memory cart
// is a cache of this store; every mutation writes through before returning.
type CartRepository interface {
	// Get retrieves the persisted cart lines. Returns ErrNotFound when no
	// snapshot exists.
	Get(ctx context.Context) ([]domain.CartLine, error)

	// Save persists the cart lines, overwriting any existing snapshot.
	Save(ctx context.Context, lines []domain.CartLine) error

	// Delete removes the cart snapshot.
	Delete(ctx context.Context) error
}

// SessionRepository is the string key-value boundary holding the session
// fields (usuario_id, usuario_nombre, ...) and checkout bookkeeping
// (pedido_id).
type SessionRepository interface {
	// Get retrieves the value for a key. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value for a key.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
