package checkout

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/repository"
	apperrors "github.com/olmosO/doggys/pkg/errors"
)

// --- Mocks ---

type mockCart struct {
	mock.Mock
}

func (m *mockCart) Lines() []domain.CartLine {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.CartLine)
}

func (m *mockCart) IsEmpty() bool {
	return m.Called().Bool(0)
}

func (m *mockCart) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) UserID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderAPI struct {
	mock.Mock
}

func (m *mockOrderAPI) CreateOrder(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error) {
	args := m.Called(ctx, userID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderAPI) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderAPI) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderAPI) CreateReceipt(ctx context.Context, orderID int64) (*domain.Receipt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService() (*Service, *mockCart, *mockSession, *mockOrderAPI, *mockStore) {
	cart := new(mockCart)
	session := new(mockSession)
	api := new(mockOrderAPI)
	store := new(mockStore)
	svc := NewService(cart, session, api, store, newTestLogger())
	return svc, cart, session, api, store
}

func twoLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: 1, Name: "Completo", UnitPrice: 2500, Quantity: 2, Subtotal: 5000},
		{ProductID: 7, Name: "Pizza", UnitPrice: 10, Quantity: 1, Subtotal: 10},
	}
}

// --- Checkout ---

func TestCheckout_HappyPath(t *testing.T) {
	svc, cart, session, api, store := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(false)
	cart.On("Lines").Return(twoLines())
	session.On("UserID", ctx).Return(int64(12), nil)

	wantItems := []domain.OrderItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 7, Quantity: 1},
	}
	api.On("CreateOrder", ctx, int64(12), wantItems).
		Return(&domain.Order{ID: 31, UserID: 12, Status: domain.StatusPendiente, Total: 5010}, nil)
	store.On("Set", ctx, repository.KeyOrderID, "31").Return(nil)
	api.On("UpdateOrderStatus", ctx, int64(31), domain.StatusPagado).Return(nil)
	cart.On("Clear", ctx).Return(nil)

	order, err := svc.Checkout(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(31), order.ID)
	assert.Equal(t, domain.StatusPagado, order.Status)
	cart.AssertExpectations(t)
	api.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCheckout_EmptyCartRefusedBeforeAnyCall(t *testing.T) {
	svc, cart, session, api, _ := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(true)

	order, err := svc.Checkout(ctx)

	assert.Nil(t, order)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	// The refusal happens before session resolution or any backend call.
	session.AssertNotCalled(t, "UserID", mock.Anything)
	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_SessionRequired(t *testing.T) {
	svc, cart, session, api, _ := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(false)
	session.On("UserID", ctx).Return(int64(0), apperrors.SessionRequired("finalizar la compra"))

	_, err := svc.Checkout(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSessionRequired)
	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_CreateOrderFails_CartIntact(t *testing.T) {
	svc, cart, session, api, store := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(false)
	cart.On("Lines").Return(twoLines())
	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("CreateOrder", ctx, int64(12), mock.Anything).
		Return(nil, apperrors.Backend(500, "create order returned status 500"))

	_, err := svc.Checkout(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBackend)
	cart.AssertNotCalled(t, "Clear", mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_PaidTransitionFails_CartAndOrderIDIntact(t *testing.T) {
	svc, cart, session, api, store := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(false)
	cart.On("Lines").Return(twoLines())
	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("CreateOrder", ctx, int64(12), mock.Anything).
		Return(&domain.Order{ID: 31, UserID: 12, Status: domain.StatusPendiente}, nil)
	store.On("Set", ctx, repository.KeyOrderID, "31").Return(nil)
	api.On("UpdateOrderStatus", ctx, int64(31), domain.StatusPagado).
		Return(apperrors.Backend(500, "update order status returned status 500"))

	_, err := svc.Checkout(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark order paid")
	// The pedido exists remotely but the cart is NOT cleared: the user
	// decides whether to retry, and pedido_id stays findable.
	cart.AssertNotCalled(t, "Clear", mock.Anything)
	store.AssertExpectations(t)
}

func TestCheckout_ClearFailureDoesNotFailCheckout(t *testing.T) {
	svc, cart, session, api, store := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(false)
	cart.On("Lines").Return(twoLines())
	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("CreateOrder", ctx, int64(12), mock.Anything).
		Return(&domain.Order{ID: 31, UserID: 12}, nil)
	store.On("Set", ctx, repository.KeyOrderID, "31").Return(nil)
	api.On("UpdateOrderStatus", ctx, int64(31), domain.StatusPagado).Return(nil)
	cart.On("Clear", ctx).Return(assert.AnError)

	order, err := svc.Checkout(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(31), order.ID)
}

func TestCheckout_ItemsCarryNoPrices(t *testing.T) {
	svc, cart, session, api, store := newTestService()
	ctx := context.Background()

	cart.On("IsEmpty").Return(false)
	cart.On("Lines").Return(twoLines())
	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("CreateOrder", ctx, int64(12), mock.MatchedBy(func(items []domain.OrderItem) bool {
		for _, it := range items {
			if it.Subtotal != 0 || it.Name != "" {
				return false
			}
		}
		return len(items) == 2
	})).Return(&domain.Order{ID: 31}, nil)
	store.On("Set", ctx, repository.KeyOrderID, "31").Return(nil)
	api.On("UpdateOrderStatus", ctx, int64(31), domain.StatusPagado).Return(nil)
	cart.On("Clear", ctx).Return(nil)

	_, err := svc.Checkout(ctx)
	require.NoError(t, err)
	api.AssertExpectations(t)
}

// --- Cancel ---

func TestCancel_PendingOrder(t *testing.T) {
	svc, _, session, api, _ := newTestService()
	ctx := context.Background()

	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("GetOrder", ctx, int64(31)).
		Return(&domain.Order{ID: 31, UserID: 12, Status: domain.StatusPendiente}, nil)
	api.On("UpdateOrderStatus", ctx, int64(31), domain.StatusCancelado).Return(nil)

	require.NoError(t, svc.Cancel(ctx, 31))
	api.AssertExpectations(t)
}

func TestCancel_PaidOrderStillCancellable(t *testing.T) {
	svc, _, session, api, _ := newTestService()
	ctx := context.Background()

	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("GetOrder", ctx, int64(31)).
		Return(&domain.Order{ID: 31, UserID: 12, Status: domain.StatusPagado}, nil)
	api.On("UpdateOrderStatus", ctx, int64(31), domain.StatusCancelado).Return(nil)

	require.NoError(t, svc.Cancel(ctx, 31))
}

func TestCancel_DispatchedOrderRefused(t *testing.T) {
	svc, _, session, api, _ := newTestService()
	ctx := context.Background()

	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("GetOrder", ctx, int64(31)).
		Return(&domain.Order{ID: 31, UserID: 12, Status: domain.StatusDespachado}, nil)

	err := svc.Cancel(ctx, 31)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	// Refused locally, no estado transition is attempted.
	api.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_SomeoneElsesOrder(t *testing.T) {
	svc, _, session, api, _ := newTestService()
	ctx := context.Background()

	session.On("UserID", ctx).Return(int64(12), nil)
	api.On("GetOrder", ctx, int64(31)).
		Return(&domain.Order{ID: 31, UserID: 99, Status: domain.StatusPendiente}, nil)

	err := svc.Cancel(ctx, 31)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	api.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_SessionRequired(t *testing.T) {
	svc, _, session, api, _ := newTestService()
	ctx := context.Background()

	session.On("UserID", ctx).Return(int64(0), apperrors.SessionRequired("cancelar un pedido"))

	err := svc.Cancel(ctx, 31)

	assert.ErrorIs(t, err, apperrors.ErrSessionRequired)
	api.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

// --- Receipt ---

func TestReceipt(t *testing.T) {
	svc, _, _, api, _ := newTestService()
	ctx := context.Background()

	api.On("CreateReceipt", ctx, int64(31)).
		Return(&domain.Receipt{ID: 5, OrderID: 31, Total: 5010}, nil)

	receipt, err := svc.Receipt(ctx, 31)
	require.NoError(t, err)
	assert.Equal(t, int64(5), receipt.ID)
	assert.Equal(t, int64(5010), receipt.Total)
}

// --- LastOrderID ---

func TestLastOrderID(t *testing.T) {
	svc, _, _, _, store := newTestService()
	ctx := context.Background()

	store.On("Get", ctx, repository.KeyOrderID).Return("31", nil)

	id, err := svc.LastOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
}

func TestLastOrderID_None(t *testing.T) {
	svc, _, _, _, store := newTestService()
	ctx := context.Background()

	store.On("Get", ctx, repository.KeyOrderID).
		Return("", apperrors.NotFound("local store key", repository.KeyOrderID))

	_, err := svc.LastOrderID(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
