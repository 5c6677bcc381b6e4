package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/product"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventario.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})
	return store
}

func seedProduct(t *testing.T, store *Store, code, name, price string, stock, threshold int64) {
	t.Helper()
	err := store.CreateProduct(context.Background(), product.Product{
		Code:             code,
		Name:             name,
		Price:            decimal.RequireFromString(price),
		Stock:            stock,
		ReorderThreshold: threshold,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
}

func mustGetStock(t *testing.T, store *Store, code string) int64 {
	t.Helper()
	p, err := store.GetProduct(context.Background(), code)
	if err != nil {
		t.Fatalf("get product %s: %v", code, err)
	}
	return p.Stock
}
