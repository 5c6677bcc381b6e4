package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/movement"
	"github.com/rfigueredo/inventario/internal/inventory/product"
	"github.com/rfigueredo/inventario/internal/inventory/sale"
	"github.com/rfigueredo/inventario/internal/inventory/storage"
	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

func openTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventario.db")
	service, err := OpenPath(context.Background(), path, "36.0")
	if err != nil {
		t.Fatalf("open service: %v", err)
	}
	t.Cleanup(func() {
		if err := service.Close(); err != nil {
			t.Fatalf("close service: %v", err)
		}
	})
	return service
}

func addProduct(t *testing.T, service *Service, code, name, price string, stock int64) {
	t.Helper()
	err := service.CatalogAdd(context.Background(), product.Product{
		Code:  code,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("add product %s: %v", code, err)
	}
}

func TestOpenPathSeedsDefaultRate(t *testing.T) {
	service := openTestService(t)

	current, err := service.RateCurrent(context.Background())
	if err != nil {
		t.Fatalf("current rate: %v", err)
	}
	if !current.Equal(decimal.RequireFromString("36.0")) {
		t.Fatalf("expected seeded default rate 36.0, got %s", current)
	}

	history, err := service.RateHistory(context.Background())
	if err != nil {
		t.Fatalf("rate history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly one seeded sample, got %d", len(history))
	}
}

func TestSeedDefaultRateIdempotent(t *testing.T) {
	service := openTestService(t)

	if err := service.SeedDefaultRate(context.Background()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	history, err := service.RateHistory(context.Background())
	if err != nil {
		t.Fatalf("rate history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected reseed to be a no-op, got %d samples", len(history))
	}
}

func TestRateRecordReplacesCurrent(t *testing.T) {
	service := openTestService(t)

	if err := service.RateRecord(context.Background(), decimal.RequireFromString("37.5")); err != nil {
		t.Fatalf("record rate: %v", err)
	}
	current, err := service.RateCurrent(context.Background())
	if err != nil {
		t.Fatalf("current rate: %v", err)
	}
	if !current.Equal(decimal.RequireFromString("37.5")) {
		t.Fatalf("expected current 37.5, got %s", current)
	}
	history, err := service.RateHistory(context.Background())
	if err != nil {
		t.Fatalf("rate history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected seed plus new sample, got %d", len(history))
	}
}

func TestSellSingleRoundTrip(t *testing.T) {
	service := openTestService(t)
	addProduct(t, service, "P1", "Widget", "10.00", 5)

	entry, err := service.SellSingle(context.Background(), " P1 ", 3, "Ana")
	if err != nil {
		t.Fatalf("sell single: %v", err)
	}
	if entry.Detail != "3x Widget" {
		t.Fatalf("expected detail \"3x Widget\", got %q", entry.Detail)
	}
	if entry.Payload.Kind != movement.KindSingleSale || entry.Payload.Customer != "Ana" {
		t.Fatalf("expected single-sale payload, got %+v", entry.Payload)
	}

	got, err := service.CatalogGet(context.Background(), "P1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", got.Stock)
	}

	if err := service.LedgerReverse(context.Background(), entry.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	got, err = service.CatalogGet(context.Background(), "P1")
	if err != nil {
		t.Fatalf("get product after reversal: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got.Stock)
	}
	entries, err := service.LedgerList(context.Background(), 0)
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty ledger after reversal, got %d", len(entries))
	}
}

func TestSellSingleRejectsBadQuantity(t *testing.T) {
	service := openTestService(t)
	addProduct(t, service, "P1", "Widget", "10.00", 5)

	_, err := service.SellSingle(context.Background(), "P1", 0, "")
	if !errors.Is(err, apperrors.New(apperrors.CodeSaleQuantityInvalid, "")) {
		t.Fatalf("expected quantity rejection, got %v", err)
	}
}

func TestSellBatchAssignsSharedBatchID(t *testing.T) {
	service := openTestService(t)
	addProduct(t, service, "P1", "Widget", "10.00", 5)
	addProduct(t, service, "P2", "Anvil", "25.00", 4)

	movements, err := service.SellBatch(context.Background(), []sale.Item{
		{ProductCode: "P1", Quantity: 2},
		{ProductCode: "P2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("sell batch: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].Payload.BatchID == "" {
		t.Fatal("expected generated batch id")
	}
	if movements[0].Payload.BatchID != movements[1].Payload.BatchID {
		t.Fatal("expected all batch items to share one batch id")
	}
	for _, entry := range movements {
		if entry.Payload.Kind != movement.KindBatchItem {
			t.Fatalf("expected batch item payload, got %+v", entry.Payload)
		}
	}
}

func TestSellBatchAllOrNothing(t *testing.T) {
	service := openTestService(t)
	addProduct(t, service, "P1", "Widget", "10.00", 5)
	addProduct(t, service, "P2", "Anvil", "25.00", 1)

	_, err := service.SellBatch(context.Background(), []sale.Item{
		{ProductCode: "P1", Quantity: 2},
		{ProductCode: "P2", Quantity: 5},
	})
	if !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	p1, err := service.CatalogGet(context.Background(), "P1")
	if err != nil {
		t.Fatalf("get P1: %v", err)
	}
	p2, err := service.CatalogGet(context.Background(), "P2")
	if err != nil {
		t.Fatalf("get P2: %v", err)
	}
	if p1.Stock != 5 || p2.Stock != 1 {
		t.Fatalf("expected stocks untouched (5, 1), got (%d, %d)", p1.Stock, p2.Stock)
	}
	entries, err := service.LedgerList(context.Background(), 0)
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no movements after failed batch, got %d", len(entries))
	}
}

func TestSellBatchRejectsDuplicateItems(t *testing.T) {
	service := openTestService(t)
	addProduct(t, service, "P1", "Widget", "10.00", 5)

	_, err := service.SellBatch(context.Background(), []sale.Item{
		{ProductCode: "P1", Quantity: 1},
		{ProductCode: " P1 ", Quantity: 2},
	})
	if !errors.Is(err, apperrors.New(apperrors.CodeSaleDuplicateItem, "")) {
		t.Fatalf("expected duplicate item rejection, got %v", err)
	}
}

func TestSellBatchRejectsEmpty(t *testing.T) {
	service := openTestService(t)

	_, err := service.SellBatch(context.Background(), nil)
	if !errors.Is(err, apperrors.New(apperrors.CodeSaleNoItems, "")) {
		t.Fatalf("expected empty batch rejection, got %v", err)
	}
}

func TestSalesHistoryAndRevenue(t *testing.T) {
	service := openTestService(t)
	addProduct(t, service, "P1", "Widget", "10.00", 10)
	addProduct(t, service, "P2", "Anvil", "25.00", 10)

	if _, err := service.SellSingle(context.Background(), "P1", 2, ""); err != nil {
		t.Fatalf("sell P1: %v", err)
	}
	if _, err := service.SellSingle(context.Background(), "P2", 3, ""); err != nil {
		t.Fatalf("sell P2: %v", err)
	}

	records, err := service.SalesHistory(context.Background(), 0)
	if err != nil {
		t.Fatalf("sales history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 sales rows, got %d", len(records))
	}

	revenues, err := service.RevenueByProduct(context.Background())
	if err != nil {
		t.Fatalf("revenue by product: %v", err)
	}
	if len(revenues) != 2 || revenues[0].ProductCode != "P2" {
		t.Fatalf("expected P2 to lead revenue, got %+v", revenues)
	}
	if !revenues[0].Revenue.Equal(decimal.RequireFromString("75.00")) {
		t.Fatalf("expected P2 revenue 75.00, got %s", revenues[0].Revenue)
	}
}

func TestOpenPathRejectsBadDefaultRate(t *testing.T) {
	_, err := OpenPath(context.Background(), filepath.Join(t.TempDir(), "inventario.db"), "not-a-rate")
	if err == nil {
		t.Fatal("expected error for unparseable default rate")
	}
}
