package sqlite

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/sale"
)

// ListSales returns sales-history rows newest first. limit <= 0 returns all.
// History rows are written by RegisterSale and never deleted; reversing a
// movement does not rewrite what was sold.
func (s *Store) ListSales(ctx context.Context, limit int) ([]sale.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT id, product_code, quantity, unit_price, occurred_at
	            FROM sales
	           ORDER BY occurred_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var records []sale.Record
	for rows.Next() {
		var record sale.Record
		var unitPrice string
		var occurredAt int64
		if err := rows.Scan(&record.ID, &record.ProductCode, &record.Quantity, &unitPrice, &occurredAt); err != nil {
			return nil, fmt.Errorf("list sales: %w", err)
		}
		record.UnitPrice, err = parseDecimal(unitPrice, "unit_price")
		if err != nil {
			return nil, err
		}
		record.OccurredAt = fromMillis(occurredAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return records, nil
}

// RevenueByProduct sums unit_price * quantity per product, largest total
// first. Sums are computed in Go to keep decimal arithmetic exact.
func (s *Store) RevenueByProduct(ctx context.Context) ([]sale.ProductRevenue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT product_code, quantity, unit_price
		   FROM sales
		  ORDER BY product_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("revenue by product: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	var order []string
	for rows.Next() {
		var code, unitPrice string
		var quantity int64
		if err := rows.Scan(&code, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("revenue by product: %w", err)
		}
		price, err := parseDecimal(unitPrice, "unit_price")
		if err != nil {
			return nil, err
		}
		if _, seen := totals[code]; !seen {
			order = append(order, code)
		}
		totals[code] = totals[code].Add(price.Mul(decimal.NewFromInt(quantity)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revenue by product: %w", err)
	}

	revenues := make([]sale.ProductRevenue, 0, len(order))
	for _, code := range order {
		revenues = append(revenues, sale.ProductRevenue{ProductCode: code, Revenue: totals[code]})
	}
	// Largest revenue first; product code keeps equal totals deterministic.
	sort.Slice(revenues, func(i, j int) bool {
		if !revenues[i].Revenue.Equal(revenues[j].Revenue) {
			return revenues[i].Revenue.GreaterThan(revenues[j].Revenue)
		}
		return revenues[i].ProductCode < revenues[j].ProductCode
	})
	return revenues, nil
}

// RevenueBetween sums revenue for sales with from <= occurred_at < to.
func (s *Store) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, err
	}
	if err := s.ready(); err != nil {
		return decimal.Decimal{}, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT quantity, unit_price
		   FROM sales
		  WHERE occurred_at >= ? AND occurred_at < ?`,
		toMillis(from),
		toMillis(to),
	)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("revenue between: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var quantity int64
		var unitPrice string
		if err := rows.Scan(&quantity, &unitPrice); err != nil {
			return decimal.Decimal{}, fmt.Errorf("revenue between: %w", err)
		}
		price, err := parseDecimal(unitPrice, "unit_price")
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(quantity)))
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("revenue between: %w", err)
	}
	return total, nil
}
