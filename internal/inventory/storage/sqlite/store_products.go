package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rfigueredo/inventario/internal/inventory/product"
	"github.com/rfigueredo/inventario/internal/inventory/storage"
)

// CreateProduct inserts one catalog record. The product must already be
// validated; a colliding code returns storage.ErrDuplicateCode and leaves the
// existing record unmodified.
func (s *Store) CreateProduct(ctx context.Context, p product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO products (code, name, description, price, stock, reorder_threshold)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Code,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Stock,
		p.ReorderThreshold,
	)
	if err != nil {
		if isUniqueViolation(err, "products.code") {
			return storage.ErrDuplicateCode
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetProduct returns one product by code.
func (s *Store) GetProduct(ctx context.Context, code string) (product.Product, error) {
	if err := ctx.Err(); err != nil {
		return product.Product{}, err
	}
	if err := s.ready(); err != nil {
		return product.Product{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return product.Product{}, fmt.Errorf("product code is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT code, name, description, price, stock, reorder_threshold
		   FROM products
		  WHERE code = ?`,
		code,
	)
	return scanProduct(row)
}

// ListProducts returns products ordered by name, case-insensitive. A
// non-empty filter matches against name or description, case-insensitive.
func (s *Store) ListProducts(ctx context.Context, filter string) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT code, name, description, price, stock, reorder_threshold
	            FROM products`
	var args []any
	if trimmed := strings.TrimSpace(filter); trimmed != "" {
		query += ` WHERE name LIKE ? OR description LIKE ?`
		pattern := "%" + trimmed + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name COLLATE NOCASE, code`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct overwrites every mutable field of an existing product. This
// is the absolute-set primitive: callers applying a stock delta must read and
// write inside the same transaction, which the ledger paths do.
func (s *Store) UpdateProduct(ctx context.Context, p product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE products
		    SET name = ?, description = ?, price = ?, stock = ?, reorder_threshold = ?
		  WHERE code = ?`,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Stock,
		p.ReorderThreshold,
		p.Code,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteProduct removes one product. Historical movements referencing the
// code are left in place; reversal tolerates the gap.
func (s *Store) DeleteProduct(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("product code is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM products WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (product.Product, error) {
	var p product.Product
	var price string
	err := row.Scan(
		&p.Code,
		&p.Name,
		&p.Description,
		&price,
		&p.Stock,
		&p.ReorderThreshold,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Product{}, storage.ErrNotFound
		}
		return product.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.Price, err = parseDecimal(price, "price")
	if err != nil {
		return product.Product{}, err
	}
	return p, nil
}
