package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	apperrors "github.com/olmosO/doggys/pkg/errors"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func sampleLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: 1, Name: "Completo Italiano", UnitPrice: 2500, Quantity: 2, Subtotal: 5000},
		{ProductID: 7, Name: "Pizza", UnitPrice: 10, Quantity: 1, Subtotal: 10},
	}
}

// ---------------------------------------------------------------------------
// CartRepository
// ---------------------------------------------------------------------------

func TestCartRepository_Get_Success(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client)

	data, err := json.Marshal(sampleLines())
	require.NoError(t, err)

	// Set data directly in miniredis.
	require.NoError(t, mr.Set(repository.KeyCart, string(data)))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ProductID)
	assert.Equal(t, "Completo Italiano", got[0].Name)
	assert.Equal(t, int64(2500), got[0].UnitPrice)
	assert.Equal(t, 2, got[0].Quantity)
	assert.Equal(t, int64(5000), got[0].Subtotal)
	assert.Equal(t, int64(7), got[1].ProductID)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewCartRepository(client)

	got, err := repo.Get(context.Background())
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_InvalidJSON(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client)

	// Set corrupted JSON data.
	require.NoError(t, mr.Set(repository.KeyCart, "{{not-valid-json"))

	got, err := repo.Get(context.Background())
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal cart")
}

func TestCartRepository_Save_Success(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client)

	require.NoError(t, repo.Save(context.Background(), sampleLines()))
	assert.True(t, mr.Exists(repository.KeyCart))

	raw, err := mr.Get(repository.KeyCart)
	require.NoError(t, err)

	var stored []domain.CartLine
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, sampleLines(), stored)
}

func TestCartRepository_Save_NoExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client)

	require.NoError(t, repo.Save(context.Background(), sampleLines()))
	assert.Zero(t, mr.TTL(repository.KeyCart))
}

func TestCartRepository_Save_NilAsEmpty(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client)

	require.NoError(t, repo.Save(context.Background(), nil))

	raw, err := mr.Get(repository.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestCartRepository_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client)

	require.NoError(t, repo.Save(context.Background(), sampleLines()))
	require.NoError(t, repo.Delete(context.Background()))
	assert.False(t, mr.Exists(repository.KeyCart))
}

func TestCartRepository_Delete_NonExistent(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewCartRepository(client)

	assert.NoError(t, repo.Delete(context.Background()))
}

// ---------------------------------------------------------------------------
// SessionRepository
// ---------------------------------------------------------------------------

func TestSessionRepository_SetGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, repository.KeyUserID, "12"))

	got, err := repo.Get(ctx, repository.KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "12", got)
}

func TestSessionRepository_Get_Absent(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	_, err := repo.Get(context.Background(), repository.KeyUserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionRepository_DeleteMultiple(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, repository.KeyUserID, "12"))
	require.NoError(t, repo.Set(ctx, repository.KeyUserName, "Juan"))

	require.NoError(t, repo.Delete(ctx, repository.KeyUserID, repository.KeyUserName, repository.KeyIsAdmin))

	assert.False(t, mr.Exists(repository.KeyUserID))
	assert.False(t, mr.Exists(repository.KeyUserName))
}

func TestSessionRepository_Delete_NoKeys(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	assert.NoError(t, repo.Delete(context.Background()))
}
