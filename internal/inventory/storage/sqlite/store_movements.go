package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/movement"
	"github.com/rfigueredo/inventario/internal/inventory/sale"
	"github.com/rfigueredo/inventario/internal/inventory/storage"
	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

// RegisterSale atomically applies a sale: for every item it checks stock
// sufficiency, decrements stock, appends one ledger movement and one
// sales-history row. Any failure rolls the whole request back, so a
// mid-batch insufficiency leaves no trace of the earlier items.
func (s *Store) RegisterSale(ctx context.Context, req storage.SaleRequest) ([]movement.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := sale.ValidateItems(req.Items); err != nil {
		return nil, err
	}
	if req.BatchID == "" && len(req.Items) > 1 {
		return nil, apperrors.New(apperrors.CodeMovementPayloadInvalid,
			"multi-item sale requires a batch id")
	}
	if req.BatchID != "" && req.Customer != "" {
		return nil, apperrors.New(apperrors.CodeMovementPayloadInvalid,
			"batch sale must not carry a customer")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	occurredAt := time.Now().UTC().Truncate(time.Millisecond)
	movements := make([]movement.Movement, 0, len(req.Items))

	for _, item := range req.Items {
		row := tx.QueryRowContext(
			ctx,
			`SELECT name, price, stock FROM products WHERE code = ?`,
			item.ProductCode,
		)
		var name, priceRaw string
		var stock int64
		if err := row.Scan(&name, &priceRaw, &stock); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
					"sale references an unknown product",
					map[string]string{"product_code": item.ProductCode})
			}
			return nil, fmt.Errorf("read product %s: %w", item.ProductCode, err)
		}
		if stock < item.Quantity {
			return nil, apperrors.WithMetadata(apperrors.CodeInsufficientStock,
				"insufficient stock",
				map[string]string{
					"product_code": item.ProductCode,
					"requested":    strconv.FormatInt(item.Quantity, 10),
					"available":    strconv.FormatInt(stock, 10),
				})
		}
		price, err := parseDecimal(priceRaw, "price")
		if err != nil {
			return nil, err
		}

		// The stock >= quantity guard repeats the check inside the UPDATE so a
		// concurrent writer between read and write can never drive stock negative.
		result, err := tx.ExecContext(
			ctx,
			`UPDATE products SET stock = stock - ? WHERE code = ? AND stock >= ?`,
			item.Quantity,
			item.ProductCode,
			item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement stock %s: %w", item.ProductCode, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrement stock rows affected: %w", err)
		}
		if affected == 0 {
			return nil, apperrors.WithMetadata(apperrors.CodeInsufficientStock,
				"insufficient stock",
				map[string]string{"product_code": item.ProductCode})
		}

		payload := movement.Payload{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		}
		if req.BatchID != "" {
			payload.Kind = movement.KindBatchItem
			payload.BatchID = req.BatchID
		} else {
			payload.Kind = movement.KindSingleSale
			payload.Customer = req.Customer
		}
		rawPayload, err := movement.EncodePayload(payload)
		if err != nil {
			return nil, err
		}

		entry := movement.Movement{
			OccurredAt: occurredAt,
			Detail:     movement.Detail(item.Quantity, name),
			Total:      price.Mul(decimal.NewFromInt(item.Quantity)),
			Payload:    payload,
		}
		if err := entry.Validate(); err != nil {
			return nil, err
		}

		inserted, err := tx.ExecContext(
			ctx,
			`INSERT INTO movements (occurred_at, detail, total_amount, payload)
			 VALUES (?, ?, ?, ?)`,
			toMillis(entry.OccurredAt),
			entry.Detail,
			entry.Total.String(),
			rawPayload,
		)
		if err != nil {
			return nil, fmt.Errorf("append movement: %w", err)
		}
		entry.ID, err = inserted.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("movement id: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO sales (product_code, quantity, unit_price, occurred_at)
			 VALUES (?, ?, ?, ?)`,
			item.ProductCode,
			item.Quantity,
			priceRaw,
			toMillis(occurredAt),
		); err != nil {
			return nil, fmt.Errorf("append sale record: %w", err)
		}

		movements = append(movements, entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return movements, nil
}

// ListMovements returns ledger entries newest first. limit <= 0 returns all.
func (s *Store) ListMovements(ctx context.Context, limit int) ([]movement.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT id, occurred_at, detail, total_amount, payload
	            FROM movements
	           ORDER BY occurred_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var entries []movement.Movement
	for rows.Next() {
		var entry movement.Movement
		var occurredAt int64
		var total, rawPayload string
		if err := rows.Scan(&entry.ID, &occurredAt, &entry.Detail, &total, &rawPayload); err != nil {
			return nil, fmt.Errorf("list movements: %w", err)
		}
		entry.OccurredAt = fromMillis(occurredAt)
		entry.Total, err = parseDecimal(total, "total_amount")
		if err != nil {
			return nil, err
		}
		entry.Payload, err = movement.DecodePayload(rawPayload)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return entries, nil
}

// ReverseMovement restores stock per the entry's payload and deletes the
// entry, atomically. Product codes that left the catalog are skipped; the
// ledger tolerates orphaned references.
func (s *Store) ReverseMovement(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT payload FROM movements WHERE id = ?`, id)
	var rawPayload string
	if err := row.Scan(&rawPayload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("read movement %d: %w", id, err)
	}

	payload, err := movement.DecodePayload(rawPayload)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE products SET stock = stock + ? WHERE code = ?`,
		payload.Quantity,
		payload.ProductCode,
	); err != nil {
		return fmt.Errorf("restore stock %s: %w", payload.ProductCode, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM movements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete movement %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
