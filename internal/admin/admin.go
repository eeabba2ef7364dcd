// Package admin exposes the console operations reserved for administrator
// accounts: catalog management and the sales report.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olmosO/doggys/internal/api"
	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/report"
	"github.com/olmosO/doggys/internal/view"
	apperrors "github.com/olmosO/doggys/pkg/errors"
	"github.com/olmosO/doggys/pkg/logger"
	"github.com/olmosO/doggys/pkg/validator"
)

// Session answers the admin gate.
type Session interface {
	IsAdmin(ctx context.Context) bool
}

// CatalogAPI is the backend surface of the console.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input api.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input api.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	SetProductAvailability(ctx context.Context, id int64, available bool) error
}

// Receipts reads the backend's boleta ledger.
type Receipts interface {
	ListReceipts(ctx context.Context) ([]domain.Receipt, error)
}

// Reports builds the sales report.
type Reports interface {
	Sales(ctx context.Context, filter report.Filter) ([]report.Row, error)
}

// Console implements the admin operations. Every operation checks the
// is_admin session flag first.
type Console struct {
	session  Session
	catalog  CatalogAPI
	receipts Receipts
	reports  Reports
	view     view.View
	logger   *slog.Logger
}

// NewConsole creates an admin console.
func NewConsole(session Session, catalog CatalogAPI, receipts Receipts, reports Reports, v view.View, logger *slog.Logger) *Console {
	return &Console{
		session:  session,
		catalog:  catalog,
		receipts: receipts,
		reports:  reports,
		view:     v,
		logger:   logger,
	}
}

func (c *Console) guard(ctx context.Context) error {
	if !c.session.IsAdmin(ctx) {
		return apperrors.Unauthorized("acceso denegado, solo administradores")
	}
	return nil
}

// ListProducts retrieves the catalog, including unavailable products.
func (c *Console) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	return c.catalog.ListProducts(ctx)
}

// CreateProduct validates and creates a catalog product.
func (c *Console) CreateProduct(ctx context.Context, input api.ProductInput) (*domain.Product, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	if err := validator.Validate(input); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	product, err := c.catalog.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx, c.logger).InfoContext(ctx, "product created",
		slog.Int64("producto_id", product.ID),
		slog.String("nombre", product.Name),
	)

	c.view.Notify(fmt.Sprintf("Producto %s creado", product.Name))
	return product, nil
}

// UpdateProduct validates and updates a catalog product.
func (c *Console) UpdateProduct(ctx context.Context, id int64, input api.ProductInput) (*domain.Product, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	if err := validator.Validate(input); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	product, err := c.catalog.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}

	c.view.Notify(fmt.Sprintf("Producto %s actualizado", product.Name))
	return product, nil
}

// DeleteProduct removes a product after an affirmative confirmation. A
// declined confirmation is not an error.
func (c *Console) DeleteProduct(ctx context.Context, product domain.Product) error {
	if err := c.guard(ctx); err != nil {
		return err
	}

	if !c.view.Confirm(fmt.Sprintf("¿Eliminar %s del catálogo?", product.Name)) {
		return nil
	}

	if err := c.catalog.DeleteProduct(ctx, product.ID); err != nil {
		return err
	}

	logger.WithContext(ctx, c.logger).InfoContext(ctx, "product deleted",
		slog.Int64("producto_id", product.ID),
		slog.String("nombre", product.Name),
	)

	c.view.Notify(fmt.Sprintf("Producto %s eliminado", product.Name))
	return nil
}

// ToggleAvailability flips a product's disponible flag.
func (c *Console) ToggleAvailability(ctx context.Context, product domain.Product) error {
	if err := c.guard(ctx); err != nil {
		return err
	}

	if err := c.catalog.SetProductAvailability(ctx, product.ID, !product.Available); err != nil {
		return err
	}

	state := "disponible"
	if product.Available {
		state = "no disponible"
	}
	c.view.Notify(fmt.Sprintf("Producto %s ahora %s", product.Name, state))
	return nil
}

// ListReceipts retrieves every issued boleta.
func (c *Console) ListReceipts(ctx context.Context) ([]domain.Receipt, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	return c.receipts.ListReceipts(ctx)
}

// SalesReport builds the filtered sales report.
func (c *Console) SalesReport(ctx context.Context, filter report.Filter) ([]report.Row, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	return c.reports.Sales(ctx, filter)
}
