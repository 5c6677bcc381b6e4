package movement

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "github.com/rfigueredo/inventario/internal/platform/errors"
)

func TestDetail(t *testing.T) {
	if got := Detail(3, "Widget"); got != "3x Widget" {
		t.Fatalf("expected detail \"3x Widget\", got %q", got)
	}
}

func TestMovementValidate(t *testing.T) {
	valid := Movement{
		Detail: "3x Widget",
		Total:  decimal.RequireFromString("30.00"),
		Payload: Payload{
			Kind:        KindSingleSale,
			ProductCode: "P1",
			Quantity:    3,
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate movement: %v", err)
	}

	empty := valid
	empty.Detail = "  "
	if !errors.Is(empty.Validate(), apperrors.New(apperrors.CodeMovementDetailEmpty, "")) {
		t.Fatal("expected empty detail to be rejected")
	}

	zero := valid
	zero.Total = decimal.Zero
	if !errors.Is(zero.Validate(), apperrors.New(apperrors.CodeMovementTotalInvalid, "")) {
		t.Fatal("expected non-positive total to be rejected")
	}
}

func TestPayloadValidateKinds(t *testing.T) {
	cases := []struct {
		name    string
		payload Payload
		ok      bool
	}{
		{"single sale", Payload{Kind: KindSingleSale, ProductCode: "P1", Quantity: 2}, true},
		{"single sale with customer", Payload{Kind: KindSingleSale, ProductCode: "P1", Quantity: 2, Customer: "Ana"}, true},
		{"single sale with batch id", Payload{Kind: KindSingleSale, ProductCode: "P1", Quantity: 2, BatchID: "b"}, false},
		{"batch item", Payload{Kind: KindBatchItem, ProductCode: "P1", Quantity: 2, BatchID: "b-1"}, true},
		{"batch item without batch id", Payload{Kind: KindBatchItem, ProductCode: "P1", Quantity: 2}, false},
		{"batch item with customer", Payload{Kind: KindBatchItem, ProductCode: "P1", Quantity: 2, BatchID: "b", Customer: "Ana"}, false},
		{"unknown kind", Payload{Kind: "refund", ProductCode: "P1", Quantity: 2}, false},
		{"missing product", Payload{Kind: KindSingleSale, Quantity: 2}, false},
		{"zero quantity", Payload{Kind: KindSingleSale, ProductCode: "P1"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid payload, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected payload to be rejected")
			}
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	original := Payload{
		Kind:        KindBatchItem,
		ProductCode: "P2",
		Quantity:    4,
		BatchID:     "1f1e9702-6ffa-4f86-9a3b-a463a1e9bd09",
	}
	raw, err := EncodePayload(original)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	decoded, err := DecodePayload(raw)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded != original {
		t.Fatalf("expected round-trip payload %+v, got %+v", original, decoded)
	}
}

func TestDecodePayloadRejectsUnknownKind(t *testing.T) {
	_, err := DecodePayload(`{"kind":"transfer","product_code":"P1","quantity":1}`)
	if err == nil {
		t.Fatal("expected unknown kind to fail decoding")
	}
	if !errors.Is(err, apperrors.New(apperrors.CodeMovementPayloadInvalid, "")) {
		t.Fatalf("expected payload invalid code, got %v", err)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, err := DecodePayload("not-json")
	if err == nil {
		t.Fatal("expected garbage payload to fail decoding")
	}
	if !strings.Contains(err.Error(), "unmarshal payload") {
		t.Fatalf("expected unmarshal context, got %v", err)
	}
}
