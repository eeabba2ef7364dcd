// Package api is the client for the shop's REST backend. Wire field names
// are the backend's Spanish names; errors arrive as {"detail": "..."} and are
// mapped into the application error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/pkg/httpclient"
	"github.com/olmosO/doggys/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the shop backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *slog.Logger
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, httpClient HTTPDoer, log *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// do executes one backend request. Every request carries an X-Request-ID
// that doubles as the log correlation id; out may be nil when the response
// body is not needed.
func (c *Client) do(ctx context.Context, method, path string, in, out any, operation string) error {
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
		ctx = logger.WithRequestID(ctx, requestID)
	}

	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		logger.WithContext(ctx, c.logger).ErrorContext(ctx, "backend request failed",
			slog.String("operation", operation),
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("call backend: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, operation)
	}

	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Productos
// ---------------------------------------------------------------------------

// ProductInput holds the writable fields of a product.
type ProductInput struct {
	Name        string   `json:"nombre" validate:"required"`
	Description string   `json:"descripcion,omitempty"`
	Price       int64    `json:"precio" validate:"gte=0"`
	Available   bool     `json:"disponible"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Tags        []string `json:"tags,omitempty"`
	ImageRef    string   `json:"img,omitempty"`
}

// ListProducts retrieves the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/productos", nil, &products, "list products"); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct retrieves one product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	path := fmt.Sprintf("/productos/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &product, "get product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a catalog product.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/productos", input, &product, "create product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product's writable fields.
func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	path := fmt.Sprintf("/productos/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, &product, "update product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/productos/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "delete product")
}

// SetProductAvailability flips a product's disponible flag.
func (c *Client) SetProductAvailability(ctx context.Context, id int64, available bool) error {
	path := fmt.Sprintf("/productos/%d/disponible?nuevo_estado=%t", id, available)
	return c.do(ctx, http.MethodPatch, path, nil, nil, "set product availability")
}

// ---------------------------------------------------------------------------
// Pedidos
// ---------------------------------------------------------------------------

// createOrderRequest is the order-creation wire format. Prices are never
// sent; the backend prices the order from its own catalog.
type createOrderRequest struct {
	UserID int64              `json:"usuario_id"`
	Items  []domain.OrderItem `json:"items"`
	Status domain.OrderStatus `json:"estado"`
}

// ListOrders retrieves orders, optionally filtered to one user. Pass 0 to
// list all orders (admin reporting).
func (c *Client) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	path := "/pedidos"
	if userID != 0 {
		path += "?usuario_id=" + strconv.FormatInt(userID, 10)
	}

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders, "list orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder retrieves one order by id.
func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	path := fmt.Sprintf("/pedidos/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &order, "get order"); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder places a new order in estado pendiente. Items carry product id
// and quantity only.
func (c *Client) CreateOrder(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error) {
	req := createOrderRequest{
		UserID: userID,
		Items:  items,
		Status: domain.StatusPendiente,
	}

	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/pedidos", req, &order, "create order"); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, c.logger).InfoContext(ctx, "order created",
		slog.Int64("pedido_id", order.ID),
		slog.Int64("usuario_id", userID),
		slog.Int("items_count", len(items)),
	)

	return &order, nil
}

// UpdateOrderStatus transitions an order to a new estado.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	path := fmt.Sprintf("/pedidos/%d/estado?nuevo_estado=%s", id, url.QueryEscape(string(status)))
	if err := c.do(ctx, http.MethodPatch, path, nil, nil, "update order status"); err != nil {
		return err
	}

	logger.WithContext(ctx, c.logger).InfoContext(ctx, "order status updated",
		slog.Int64("pedido_id", id),
		slog.String("estado", string(status)),
	)

	return nil
}

// ---------------------------------------------------------------------------
// Boletas
// ---------------------------------------------------------------------------

type createReceiptRequest struct {
	OrderID int64 `json:"pedido_id"`
}

// CreateReceipt issues the receipt for a completed order.
func (c *Client) CreateReceipt(ctx context.Context, orderID int64) (*domain.Receipt, error) {
	var receipt domain.Receipt
	if err := c.do(ctx, http.MethodPost, "/boletas", createReceiptRequest{OrderID: orderID}, &receipt, "create receipt"); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListReceipts retrieves all issued receipts.
func (c *Client) ListReceipts(ctx context.Context) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	if err := c.do(ctx, http.MethodGet, "/boletas", nil, &receipts, "list receipts"); err != nil {
		return nil, err
	}
	return receipts, nil
}

// ---------------------------------------------------------------------------
// Usuarios
// ---------------------------------------------------------------------------

// RegisterInput holds the fields of a new account. is_admin is always sent
// false; promotion happens outside this client.
type RegisterInput struct {
	Name      string `json:"nombre" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty" validate:"omitempty,telefono"`
	IsAdmin   bool   `json:"is_admin"`
}

// ProfileInput holds the updatable profile fields.
type ProfileInput struct {
	Name      string `json:"nombre" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty" validate:"omitempty,telefono"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.IsAdmin = false

	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/usuarios", input, &user, "register user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	req := loginRequest{Email: email, Password: password}

	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/usuarios/login", req, &user, "login"); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user profile.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	path := fmt.Sprintf("/usuarios/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &user, "get user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user profile.
func (c *Client) UpdateUser(ctx context.Context, id int64, input ProfileInput) (*domain.User, error) {
	var user domain.User
	path := fmt.Sprintf("/usuarios/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, &user, "update user"); err != nil {
		return nil, err
	}
	return &user, nil
}
