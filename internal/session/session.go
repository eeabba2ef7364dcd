// Package session manages the locally stored user session: the user id plus
// a profile snapshot persisted across restarts, and an inactivity watchdog
// that signs the session out after a period without user actions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	apperrors "github.com/olmosO/doggys/pkg/errors"
	"github.com/olmosO/doggys/pkg/logger"
)

// sessionKeys are the store keys cleared on logout. The cart and pedido_id
// survive logout so an interrupted checkout can be inspected later.
var sessionKeys = []string{
	repository.KeyUserID,
	repository.KeyUserName,
	repository.KeyUserEmail,
	repository.KeyUserDireccion,
	repository.KeyUserTelefono,
	repository.KeyIsAdmin,
}

// Authenticator is the backend operation the manager needs to sign in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// Manager owns the persisted session state.
type Manager struct {
	repo   repository.SessionRepository
	auth   Authenticator
	logger *slog.Logger
}

// NewManager creates a session manager.
func NewManager(repo repository.SessionRepository, auth Authenticator, logger *slog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		auth:   auth,
		logger: logger,
	}
}

// Login authenticates against the backend and persists the session snapshot.
// Email and password are both required, always.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email y contraseña son obligatorios")
	}

	user, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		repository.KeyUserID:        strconv.FormatInt(user.ID, 10),
		repository.KeyUserName:      user.Name,
		repository.KeyUserEmail:     user.Email,
		repository.KeyUserDireccion: user.Direccion,
		repository.KeyUserTelefono:  user.Telefono,
		repository.KeyIsAdmin:       strconv.FormatBool(user.IsAdmin),
	}
	for key, value := range fields {
		if err := m.repo.Set(ctx, key, value); err != nil {
			return nil, fmt.Errorf("persist session %s: %w", key, err)
		}
	}

	logger.WithContext(ctx, m.logger).InfoContext(ctx, "user logged in",
		slog.Int64("usuario_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

// Logout clears the session fields. The cart is left intact.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.repo.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	logger.WithContext(ctx, m.logger).InfoContext(ctx, "user logged out")
	return nil
}

// UserID returns the signed-in user id, or ErrSessionRequired when nobody is
// signed in.
func (m *Manager) UserID(ctx context.Context) (int64, error) {
	raw, err := m.repo.Get(ctx, repository.KeyUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, apperrors.SessionRequired("continuar")
		}
		return 0, fmt.Errorf("read session: %w", err)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stored usuario_id %q is not numeric: %w", raw, err)
	}
	return id, nil
}

// LoggedIn reports whether a session exists.
func (m *Manager) LoggedIn(ctx context.Context) bool {
	_, err := m.UserID(ctx)
	return err == nil
}

// IsAdmin reports whether the signed-in user carries the admin flag. An
// anonymous visitor is never an admin.
func (m *Manager) IsAdmin(ctx context.Context) bool {
	raw, err := m.repo.Get(ctx, repository.KeyIsAdmin)
	return err == nil && raw == "true"
}

// Profile returns the locally stored profile snapshot.
func (m *Manager) Profile(ctx context.Context) (*domain.User, error) {
	id, err := m.UserID(ctx)
	if err != nil {
		return nil, err
	}

	user := &domain.User{ID: id, IsAdmin: m.IsAdmin(ctx)}
	user.Name, _ = m.repo.Get(ctx, repository.KeyUserName)
	user.Email, _ = m.repo.Get(ctx, repository.KeyUserEmail)
	user.Direccion, _ = m.repo.Get(ctx, repository.KeyUserDireccion)
	user.Telefono, _ = m.repo.Get(ctx, repository.KeyUserTelefono)
	return user, nil
}

// UpdateProfile refreshes the persisted snapshot after a profile edit.
func (m *Manager) UpdateProfile(ctx context.Context, user *domain.User) error {
	fields := map[string]string{
		repository.KeyUserName:      user.Name,
		repository.KeyUserEmail:     user.Email,
		repository.KeyUserDireccion: user.Direccion,
		repository.KeyUserTelefono:  user.Telefono,
	}
	for key, value := range fields {
		if err := m.repo.Set(ctx, key, value); err != nil {
			return fmt.Errorf("persist session %s: %w", key, err)
		}
	}
	return nil
}
