// Package movement defines ledger entries and their reversible payloads.
//
// A movement is one stock-affecting event. Its payload carries exactly the
// data needed to undo the event: which product, how many units. Payloads are
// a tagged variant so decoding is exhaustive and reversal can match on the
// kind instead of probing optional keys.
package movement

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

// Kind tags the payload variant.
type Kind string

const (
	// KindSingleSale is a standalone sale of one product.
	KindSingleSale Kind = "single_sale"
	// KindBatchItem is one line of a multi-product batch sale. Items of the
	// same batch share a BatchID so the batch stays reconstructible.
	KindBatchItem Kind = "batch_item"
)

// Payload is the reversible record inside a movement.
type Payload struct {
	Kind        Kind
	ProductCode string
	Quantity    int64
	Customer    string // single sale only, optional
	BatchID     string // batch item only
}

// Movement is one committed ledger entry. ID is the identity used for lookup
// and reversal; OccurredAt is display and sort order only.
type Movement struct {
	ID         int64
	OccurredAt time.Time
	Detail     string
	Total      decimal.Decimal
	Payload    Payload
}

// Detail renders the human-readable label for a sale line, e.g. "3x Widget".
func Detail(quantity int64, name string) string {
	return fmt.Sprintf("%dx %s", quantity, name)
}

// Validate checks the append-time invariants for a ledger entry.
func (m Movement) Validate() error {
	if strings.TrimSpace(m.Detail) == "" {
		return apperrors.New(apperrors.CodeMovementDetailEmpty, "movement detail is required")
	}
	if !m.Total.IsPositive() {
		return apperrors.WithMetadata(apperrors.CodeMovementTotalInvalid,
			"movement total must be greater than zero",
			map[string]string{"total": m.Total.String()})
	}
	return m.Payload.Validate()
}

// Validate checks payload shape for the tagged kind.
func (p Payload) Validate() error {
	switch p.Kind {
	case KindSingleSale:
		if p.BatchID != "" {
			return apperrors.New(apperrors.CodeMovementPayloadInvalid, "single sale payload must not carry a batch id")
		}
	case KindBatchItem:
		if strings.TrimSpace(p.BatchID) == "" {
			return apperrors.New(apperrors.CodeMovementPayloadInvalid, "batch item payload requires a batch id")
		}
		if p.Customer != "" {
			return apperrors.New(apperrors.CodeMovementPayloadInvalid, "batch item payload must not carry a customer")
		}
	default:
		return apperrors.WithMetadata(apperrors.CodeMovementPayloadInvalid,
			"unknown payload kind",
			map[string]string{"kind": string(p.Kind)})
	}
	if strings.TrimSpace(p.ProductCode) == "" {
		return apperrors.New(apperrors.CodeMovementPayloadInvalid, "payload product code is required")
	}
	if p.Quantity <= 0 {
		return apperrors.WithMetadata(apperrors.CodeMovementPayloadInvalid,
			"payload quantity must be greater than zero",
			map[string]string{"product_code": p.ProductCode})
	}
	return nil
}

type payloadJSON struct {
	Kind        string `json:"kind"`
	ProductCode string `json:"product_code"`
	Quantity    int64  `json:"quantity"`
	Customer    string `json:"customer,omitempty"`
	BatchID     string `json:"batch_id,omitempty"`
}

// EncodePayload serializes a payload for storage. The payload must be valid.
func EncodePayload(p Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(payloadJSON{
		Kind:        string(p.Kind),
		ProductCode: p.ProductCode,
		Quantity:    p.Quantity,
		Customer:    p.Customer,
		BatchID:     p.BatchID,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeMovementPayloadInvalid, "marshal payload", err)
	}
	return string(raw), nil
}

// DecodePayload parses a stored payload. Unknown kinds are rejected so
// reversal never guesses at half-understood data.
func DecodePayload(raw string) (Payload, error) {
	var decoded payloadJSON
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Payload{}, apperrors.Wrap(apperrors.CodeMovementPayloadInvalid, "unmarshal payload", err)
	}
	p := Payload{
		Kind:        Kind(decoded.Kind),
		ProductCode: decoded.ProductCode,
		Quantity:    decoded.Quantity,
		Customer:    decoded.Customer,
		BatchID:     decoded.BatchID,
	}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}
