package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	apperrors "github.com/olmosO/doggys/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS local_store (
	clave TEXT PRIMARY KEY,
	valor TEXT NOT NULL
);
`

// Store is the default durable local store: a single SQLite file holding the
// cart snapshot and session keys. It survives restarts, is scoped to the
// local profile, and has no expiry.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store file and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create local_store table: %w", err)
	}

	return &Store{db: db}, nil
}

// Ping verifies the store file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT valor FROM local_store WHERE clave = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NotFound("local store key", key)
	}
	if err != nil {
		return "", fmt.Errorf("sqlite get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_store (clave, valor) VALUES (?, ?)
		 ON CONFLICT(clave) DO UPDATE SET valor = excluded.valor`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM local_store WHERE clave = ?`, key); err != nil {
			return fmt.Errorf("sqlite delete %q: %w", key, err)
		}
	}
	return nil
}

// CartRepository implements repository.CartRepository over the store.
type CartRepository struct {
	store *Store
}

// NewCartRepository creates a SQLite-backed cart repository.
func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{store: store}
}

// Get retrieves the persisted cart lines.
func (r *CartRepository) Get(ctx context.Context) ([]domain.CartLine, error) {
	raw, err := r.store.get(ctx, repository.KeyCart)
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return lines, nil
}

// Save persists the cart lines as a JSON snapshot.
func (r *CartRepository) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	return r.store.set(ctx, repository.KeyCart, string(data))
}

// Delete removes the cart snapshot.
func (r *CartRepository) Delete(ctx context.Context) error {
	return r.store.delete(ctx, repository.KeyCart)
}

// SessionRepository implements repository.SessionRepository over the store.
type SessionRepository struct {
	store *Store
}

// NewSessionRepository creates a SQLite-backed session repository.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get retrieves the value for a key.
func (r *SessionRepository) Get(ctx context.Context, key string) (string, error) {
	return r.store.get(ctx, key)
}

// Set stores the value for a key.
func (r *SessionRepository) Set(ctx context.Context, key, value string) error {
	return r.store.set(ctx, key, value)
}

// Delete removes the given keys.
func (r *SessionRepository) Delete(ctx context.Context, keys ...string) error {
	return r.store.delete(ctx, keys...)
}
