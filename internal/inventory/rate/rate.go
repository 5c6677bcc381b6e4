// Package rate defines exchange-rate samples for the append-only rate series.
package rate

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

// Sample is one recorded exchange-rate value. The series is append-only; the
// current rate is the sample with the latest timestamp, insertion order breaks ties.
type Sample struct {
	ID         int64
	Amount     decimal.Decimal
	RecordedAt time.Time
}

// ValidateAmount checks that a rate value can be recorded.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMetadata(apperrors.CodeRateAmountInvalid,
			"exchange rate must be greater than zero",
			map[string]string{"amount": amount.String()})
	}
	return nil
}
