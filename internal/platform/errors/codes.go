// Package errors provides structured, coded error handling for the inventory core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Product errors
	CodeProductCodeEmpty         Code = "PRODUCT_CODE_EMPTY"
	CodeProductNameEmpty         Code = "PRODUCT_NAME_EMPTY"
	CodeProductPriceInvalid      Code = "PRODUCT_PRICE_INVALID"
	CodeProductStockNegative     Code = "PRODUCT_STOCK_NEGATIVE"
	CodeProductThresholdNegative Code = "PRODUCT_REORDER_THRESHOLD_NEGATIVE"
	CodeProductDuplicateCode     Code = "PRODUCT_DUPLICATE_CODE"

	// Movement errors
	CodeMovementDetailEmpty    Code = "MOVEMENT_DETAIL_EMPTY"
	CodeMovementTotalInvalid   Code = "MOVEMENT_TOTAL_INVALID"
	CodeMovementPayloadInvalid Code = "MOVEMENT_PAYLOAD_INVALID"

	// Sale errors
	CodeSaleNoItems         Code = "SALE_NO_ITEMS"
	CodeSaleQuantityInvalid Code = "SALE_QUANTITY_INVALID"
	CodeSaleDuplicateItem   Code = "SALE_DUPLICATE_ITEM"
	CodeInsufficientStock   Code = "SALE_INSUFFICIENT_STOCK"

	// Exchange rate errors
	CodeRateAmountInvalid Code = "RATE_AMOUNT_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeStorage  Code = "STORAGE_FAILURE"
)

// Class groups fine-grained codes into the failure classes callers branch on.
type Class string

const (
	ClassInvalidArgument   Class = "INVALID_ARGUMENT"
	ClassNotFound          Class = "NOT_FOUND"
	ClassDuplicateKey      Class = "DUPLICATE_KEY"
	ClassInsufficientStock Class = "INSUFFICIENT_STOCK"
	ClassStorage           Class = "STORAGE_FAILURE"
)

// Class maps domain codes to failure classes.
func (c Code) Class() Class {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeProductCodeEmpty,
		CodeProductNameEmpty,
		CodeProductPriceInvalid,
		CodeProductStockNegative,
		CodeProductThresholdNegative,
		CodeMovementDetailEmpty,
		CodeMovementTotalInvalid,
		CodeMovementPayloadInvalid,
		CodeSaleNoItems,
		CodeSaleQuantityInvalid,
		CodeSaleDuplicateItem,
		CodeRateAmountInvalid:
		return ClassInvalidArgument

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return ClassNotFound

	// DuplicateKey - unique resource constraint
	case CodeProductDuplicateCode:
		return ClassDuplicateKey

	// InsufficientStock - sale exceeds available stock
	case CodeInsufficientStock:
		return ClassInsufficientStock

	default:
		return ClassStorage
	}
}
