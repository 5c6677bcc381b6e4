// Package product defines catalog product records and their validation rules.
package product

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

// Product is one catalog entry. Code is assigned at creation and never reused.
type Product struct {
	Code             string
	Name             string
	Description      string
	Price            decimal.Decimal
	Stock            int64
	ReorderThreshold int64
}

// Normalize trims identity and text fields in place.
func (p *Product) Normalize() {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

// Validate checks the write-time invariants for a catalog record.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return apperrors.New(apperrors.CodeProductCodeEmpty, "product code is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.New(apperrors.CodeProductNameEmpty, "product name is required")
	}
	if !p.Price.IsPositive() {
		return apperrors.WithMetadata(apperrors.CodeProductPriceInvalid,
			"product price must be greater than zero",
			map[string]string{"product_code": p.Code, "price": p.Price.String()})
	}
	if p.Stock < 0 {
		return apperrors.WithMetadata(apperrors.CodeProductStockNegative,
			"product stock must not be negative",
			map[string]string{"product_code": p.Code})
	}
	if p.ReorderThreshold < 0 {
		return apperrors.WithMetadata(apperrors.CodeProductThresholdNegative,
			"product reorder threshold must not be negative",
			map[string]string{"product_code": p.Code})
	}
	return nil
}

// LowStock reports whether the product is at or below its reorder threshold.
// Derived at read time, never stored.
func (p Product) LowStock() bool {
	return p.Stock <= p.ReorderThreshold
}
