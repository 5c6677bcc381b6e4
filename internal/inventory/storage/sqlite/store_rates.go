package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfigueredo/inventario/internal/inventory/rate"
	"github.com/rfigueredo/inventario/internal/inventory/storage"
)

// RecordRate appends one exchange-rate sample. History is never overwritten.
// A zero time stamps the sample with the current time.
func (s *Store) RecordRate(ctx context.Context, amount decimal.Decimal, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if err := rate.ValidateAmount(amount); err != nil {
		return err
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO exchange_rates (amount, recorded_at) VALUES (?, ?)`,
		amount.String(),
		toMillis(at.Truncate(time.Millisecond)),
	)
	if err != nil {
		return fmt.Errorf("record rate: %w", err)
	}
	return nil
}

// CurrentRate returns the sample with the latest timestamp; insertion order
// breaks ties. storage.ErrNotFound when the series is empty.
func (s *Store) CurrentRate(ctx context.Context) (rate.Sample, error) {
	if err := ctx.Err(); err != nil {
		return rate.Sample{}, err
	}
	if err := s.ready(); err != nil {
		return rate.Sample{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, amount, recorded_at
		   FROM exchange_rates
		  ORDER BY recorded_at DESC, id DESC
		  LIMIT 1`,
	)
	sample, err := scanRate(row)
	if err != nil {
		return rate.Sample{}, err
	}
	return sample, nil
}

// ListRates returns the full series newest first, for audit.
func (s *Store) ListRates(ctx context.Context) ([]rate.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, amount, recorded_at
		   FROM exchange_rates
		  ORDER BY recorded_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	var samples []rate.Sample
	for rows.Next() {
		sample, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return samples, nil
}

func scanRate(row rowScanner) (rate.Sample, error) {
	var sample rate.Sample
	var amount string
	var recordedAt int64
	if err := row.Scan(&sample.ID, &amount, &recordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rate.Sample{}, storage.ErrNotFound
		}
		return rate.Sample{}, fmt.Errorf("scan rate: %w", err)
	}
	var err error
	sample.Amount, err = parseDecimal(amount, "amount")
	if err != nil {
		return rate.Sample{}, err
	}
	sample.RecordedAt = fromMillis(recordedAt)
	return sample, nil
}
