// Package report builds the sales report: a client-side aggregation over the
// full order listing, one row per order item.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olmosO/doggys/internal/domain"
)

// Row is one report line.
type Row struct {
	Product  string `json:"producto"`
	Quantity int    `json:"cantidad"`
	Subtotal int64  `json:"subtotal"`
	Date     string `json:"fecha"`
}

// Filter narrows the report. Zero values mean "no filter". Dates are ISO
// strings (YYYY-MM-DD) compared lexically, matching the backend's format.
type Filter struct {
	ProductType string
	From        string
	To          string
}

// fallbackDate stands in for orders the backend reports without a date.
const fallbackDate = "2025-01-01"

// OrderLister fetches orders.
type OrderLister interface {
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
}

// Service produces sales reports.
type Service struct {
	api    OrderLister
	logger *slog.Logger
}

// NewService creates a report service.
func NewService(api OrderLister, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Sales fetches all orders and aggregates the completed ones into report
// rows. Only pagado and entregado orders count as sales.
func (s *Service) Sales(ctx context.Context, filter Filter) ([]Row, error) {
	orders, err := s.api.ListOrders(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list orders for report: %w", err)
	}

	rows := Aggregate(orders, filter)

	s.logger.InfoContext(ctx, "sales report built",
		slog.Int("orders", len(orders)),
		slog.Int("rows", len(rows)),
	)

	return rows, nil
}

// Aggregate turns orders into report rows applying the filter. Exported so
// the aggregation stays testable without a backend.
func Aggregate(orders []domain.Order, filter Filter) []Row {
	productType := strings.ToLower(strings.TrimSpace(filter.ProductType))
	if productType == "todos" {
		productType = ""
	}

	rows := []Row{}
	for _, order := range orders {
		if order.Status != domain.StatusPagado && order.Status != domain.StatusEntregado {
			continue
		}

		date := order.Date
		if date == "" {
			date = fallbackDate
		}
		if filter.From != "" && date < filter.From {
			continue
		}
		if filter.To != "" && date > filter.To {
			continue
		}

		for _, item := range order.Items {
			if productType != "" && !strings.Contains(strings.ToLower(item.Name), productType) {
				continue
			}

			rows = append(rows, Row{
				Product:  item.Name,
				Quantity: item.Quantity,
				Subtotal: item.Subtotal,
				Date:     date,
			})
		}
	}

	return rows
}
