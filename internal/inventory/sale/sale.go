// Package sale defines sale requests and the per-item sales history records.
package sale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

// Item is one requested sale line: a product and how many units.
type Item struct {
	ProductCode string
	Quantity    int64
}

// Record is one committed sales-history row, kept for revenue reporting.
// History rows survive movement reversal: they audit what was sold.
type Record struct {
	ID          int64
	ProductCode string
	Quantity    int64
	UnitPrice   decimal.Decimal
	OccurredAt  time.Time
}

// ProductRevenue is the revenue total for one product.
type ProductRevenue struct {
	ProductCode string
	Revenue     decimal.Decimal
}

// ValidateItems checks a sale request before any store access. Every item
// needs a product code and a positive quantity; a product may appear once.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return apperrors.New(apperrors.CodeSaleNoItems, "sale requires at least one item")
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		code := strings.TrimSpace(item.ProductCode)
		if code == "" {
			return apperrors.New(apperrors.CodeProductCodeEmpty, "sale item product code is required")
		}
		if item.Quantity <= 0 {
			return apperrors.WithMetadata(apperrors.CodeSaleQuantityInvalid,
				"sale quantity must be greater than zero",
				map[string]string{"product_code": code})
		}
		if _, dup := seen[code]; dup {
			return apperrors.WithMetadata(apperrors.CodeSaleDuplicateItem,
				"sale lists the same product twice",
				map[string]string{"product_code": code})
		}
		seen[code] = struct{}{}
	}
	return nil
}
