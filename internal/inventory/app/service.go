// Package app exposes the inventory core to presentation layers: catalog
// CRUD, the exchange-rate series, the movement ledger and the sale
// orchestrator. It owns the store handle for the process lifetime.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/movement"
	"github.com/rfigueredo/inventario/internal/inventory/product"
	"github.com/rfigueredo/inventario/internal/inventory/rate"
	"github.com/rfigueredo/inventario/internal/inventory/sale"
	"github.com/rfigueredo/inventario/internal/inventory/storage"
)

// Service is the application facade over the inventory store. Methods are
// safe for concurrent use; the store serializes writers and every coupled
// write runs inside one transaction.
type Service struct {
	store       storage.Store
	defaultRate decimal.Decimal
}

// NewService wraps a store. defaultRate is returned by RateCurrent when the
// series is empty, which only happens before the first seed.
func NewService(store storage.Store, defaultRate decimal.Decimal) *Service {
	return &Service{store: store, defaultRate: defaultRate}
}

// Close releases the underlying store handle.
func (s *Service) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

// SeedDefaultRate records the configured default rate when the series is
// empty, so the first boot starts with a non-empty history.
func (s *Service) SeedDefaultRate(ctx context.Context) error {
	_, err := s.store.CurrentRate(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return s.store.RecordRate(ctx, s.defaultRate, time.Time{})
}

// CatalogAdd creates a product. Duplicate codes are rejected and leave the
// existing record unmodified.
func (s *Service) CatalogAdd(ctx context.Context, p product.Product) error {
	return s.store.CreateProduct(ctx, p)
}

// CatalogGet returns one product by code.
func (s *Service) CatalogGet(ctx context.Context, code string) (product.Product, error) {
	return s.store.GetProduct(ctx, code)
}

// CatalogList returns products ordered by name, optionally filtered by a
// case-insensitive match against name or description.
func (s *Service) CatalogList(ctx context.Context, filter string) ([]product.Product, error) {
	return s.store.ListProducts(ctx, filter)
}

// CatalogUpdate overwrites an existing product's fields. This is the manual
// absolute-set path; sales and reversals adjust stock through the ledger.
func (s *Service) CatalogUpdate(ctx context.Context, p product.Product) error {
	return s.store.UpdateProduct(ctx, p)
}

// CatalogDelete removes a product. Movements referencing it stay in the
// ledger; reversing them later skips the missing code.
func (s *Service) CatalogDelete(ctx context.Context, code string) error {
	return s.store.DeleteProduct(ctx, code)
}

// RateCurrent returns the latest exchange rate, or the configured default
// when the series is empty.
func (s *Service) RateCurrent(ctx context.Context) (decimal.Decimal, error) {
	sample, err := s.store.CurrentRate(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.defaultRate, nil
		}
		return decimal.Decimal{}, err
	}
	return sample.Amount, nil
}

// RateRecord appends a new exchange-rate sample stamped with the current time.
func (s *Service) RateRecord(ctx context.Context, amount decimal.Decimal) error {
	return s.store.RecordRate(ctx, amount, time.Time{})
}

// RateHistory returns every recorded sample newest first, for audit.
func (s *Service) RateHistory(ctx context.Context) ([]rate.Sample, error) {
	return s.store.ListRates(ctx)
}

// LedgerList returns movements newest first. limit <= 0 returns all.
func (s *Service) LedgerList(ctx context.Context, limit int) ([]movement.Movement, error) {
	return s.store.ListMovements(ctx, limit)
}

// LedgerReverse restores stock for the movement's payload and deletes the
// entry, atomically.
func (s *Service) LedgerReverse(ctx context.Context, id int64) error {
	return s.store.ReverseMovement(ctx, id)
}

// SellSingle sells quantity units of one product, appending one movement
// with a single-sale payload. customer is optional.
func (s *Service) SellSingle(ctx context.Context, productCode string, quantity int64, customer string) (movement.Movement, error) {
	items := []sale.Item{{ProductCode: strings.TrimSpace(productCode), Quantity: quantity}}
	if err := sale.ValidateItems(items); err != nil {
		return movement.Movement{}, err
	}
	movements, err := s.store.RegisterSale(ctx, storage.SaleRequest{
		Items:    items,
		Customer: strings.TrimSpace(customer),
	})
	if err != nil {
		return movement.Movement{}, err
	}
	return movements[0], nil
}

// SellBatch sells several products as one transaction: every item is
// validated against stock before any decrement, and all movements commit
// together or not at all. Items share a batch id so the batch stays
// reconstructible from its per-item movements.
func (s *Service) SellBatch(ctx context.Context, items []sale.Item) ([]movement.Movement, error) {
	normalized := make([]sale.Item, len(items))
	for i, item := range items {
		normalized[i] = sale.Item{
			ProductCode: strings.TrimSpace(item.ProductCode),
			Quantity:    item.Quantity,
		}
	}
	if err := sale.ValidateItems(normalized); err != nil {
		return nil, err
	}
	return s.store.RegisterSale(ctx, storage.SaleRequest{
		Items:   normalized,
		BatchID: uuid.NewString(),
	})
}

// SalesHistory returns sales-history rows newest first. limit <= 0 returns all.
func (s *Service) SalesHistory(ctx context.Context, limit int) ([]sale.Record, error) {
	return s.store.ListSales(ctx, limit)
}

// RevenueByProduct returns per-product revenue totals, largest first.
func (s *Service) RevenueByProduct(ctx context.Context) ([]sale.ProductRevenue, error) {
	return s.store.RevenueByProduct(ctx)
}

// RevenueBetween sums revenue over [from, to).
func (s *Service) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.store.RevenueBetween(ctx, from, to)
}
