package domain

// OrderStatus is the lifecycle state of a backend-owned order.
type OrderStatus string

const (
	StatusPendiente  OrderStatus = "pendiente"
	StatusPagado     OrderStatus = "pagado"
	StatusPreparando OrderStatus = "preparando"
	StatusDespachado OrderStatus = "despachado"
	StatusEntregado  OrderStatus = "entregado"
	StatusCancelado  OrderStatus = "cancelado"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPendiente, StatusPagado, StatusPreparando, StatusDespachado, StatusEntregado, StatusCancelado:
		return true
	}
	return false
}

// Cancellable reports whether an order in this state may still be cancelled
// by the user.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPendiente || s == StatusPagado
}

// Terminal reports whether no further state transitions are expected.
func (s OrderStatus) Terminal() bool {
	return s == StatusEntregado || s == StatusCancelado
}

// OrderItem is one line of an order. Order creation sends only producto_id and
// cantidad; the backend enriches listings with display fields.
type OrderItem struct {
	ProductID int64  `json:"producto_id"`
	Quantity  int    `json:"cantidad"`
	Name      string `json:"nombre,omitempty"`
	Subtotal  int64  `json:"subtotal,omitempty"`
}

// Order is a backend-owned purchase record.
type Order struct {
	ID      int64       `json:"id"`
	UserID  int64       `json:"usuario_id"`
	Items   []OrderItem `json:"items"`
	Status  OrderStatus `json:"estado"`
	Comment string      `json:"comentario,omitempty"`
	Total   int64       `json:"total"`

	// Date is the ISO order date (YYYY-MM-DD) as the backend reports it.
	// Kept as a string: date filters compare lexically.
	Date string `json:"fecha,omitempty"`
}
