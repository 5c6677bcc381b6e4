// Package storage defines the persistence contract for the inventory core.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/movement"
	"github.com/rfigueredo/inventario/internal/inventory/product"
	"github.com/rfigueredo/inventario/internal/inventory/rate"
	"github.com/rfigueredo/inventario/internal/inventory/sale"
	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrDuplicateCode indicates a catalog insert collided with an existing
// product code. The existing record is left untouched.
var ErrDuplicateCode = apperrors.New(apperrors.CodeProductDuplicateCode, "product code already exists")

// ErrInsufficientStock indicates a sale asked for more units than a product
// holds. Nothing from the sale is applied when this is returned.
var ErrInsufficientStock = apperrors.New(apperrors.CodeInsufficientStock, "insufficient stock")

// SaleRequest is a validated sale handed to the store for atomic commit.
// A non-empty BatchID marks every item as part of one batch; an empty BatchID
// is a single sale and Customer may be set.
type SaleRequest struct {
	Items    []sale.Item
	Customer string
	BatchID  string
}

// ProductStore owns the product catalog table.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Product) error
	GetProduct(ctx context.Context, code string) (product.Product, error)
	// ListProducts returns products ordered by name, case-insensitive. A
	// non-empty filter matches name or description, case-insensitive.
	ListProducts(ctx context.Context, filter string) ([]product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) error
	DeleteProduct(ctx context.Context, code string) error
}

// LedgerStore owns the movement ledger and the register/reverse protocols that
// couple ledger rows to catalog stock. Register and Reverse each run as one
// transaction: stock deltas and ledger rows commit together or not at all.
type LedgerStore interface {
	// RegisterSale checks stock sufficiency for every item, decrements stock,
	// appends one movement per item and one sales-history row per item,
	// all atomically. Returned movements carry their assigned identities.
	RegisterSale(ctx context.Context, req SaleRequest) ([]movement.Movement, error)
	// ListMovements returns movements newest first. limit <= 0 means no limit.
	ListMovements(ctx context.Context, limit int) ([]movement.Movement, error)
	// ReverseMovement restores stock per the entry's payload and deletes the
	// entry. Product codes no longer in the catalog are skipped.
	ReverseMovement(ctx context.Context, id int64) error
}

// RateStore owns the append-only exchange-rate series.
type RateStore interface {
	RecordRate(ctx context.Context, amount decimal.Decimal, at time.Time) error
	// CurrentRate returns the sample with the latest timestamp, insertion
	// order breaking ties. ErrNotFound when the series is empty.
	CurrentRate(ctx context.Context) (rate.Sample, error)
	// ListRates returns the full series newest first, for audit.
	ListRates(ctx context.Context) ([]rate.Sample, error)
}

// SalesStore owns the per-item sales history used for revenue reporting.
type SalesStore interface {
	ListSales(ctx context.Context, limit int) ([]sale.Record, error)
	// RevenueByProduct sums unit_price * quantity per product, largest first.
	RevenueByProduct(ctx context.Context) ([]sale.ProductRevenue, error)
	// RevenueBetween sums revenue for sales with from <= occurred_at < to.
	RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// Store is the full persistence surface held by the application facade.
type Store interface {
	ProductStore
	LedgerStore
	RateStore
	SalesStore
	Close() error
}
