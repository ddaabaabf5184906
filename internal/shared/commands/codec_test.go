package commands

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeCreateProduct(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	envelope, err := NewEnvelope(CreateProduct{
		ProductID:            "P1",
		Name:                 "Widget",
		Price:                100,
		Description:          "a widget for widgeting",
		ImageURL:             "/uploads/widget.png",
		InitialStockQuantity: 5,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, now)
	if err != nil {
		t.Fatalf("new envelope failed: %v", err)
	}
	if envelope.CommandID == "" {
		t.Fatalf("expected command_id to be assigned")
	}
	if envelope.CommandType != TypeCreateProduct {
		t.Fatalf("expected %s, got %s", TypeCreateProduct, envelope.CommandType)
	}

	data, err := Encode(envelope)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, cmd, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.CommandID != envelope.CommandID {
		t.Fatalf("command_id mismatch: %s vs %s", decoded.CommandID, envelope.CommandID)
	}
	create, ok := cmd.(CreateProduct)
	if !ok {
		t.Fatalf("expected CreateProduct variant, got %T", cmd)
	}
	if create.ProductID != "P1" || create.Price != 100 || create.InitialStockQuantity != 5 {
		t.Fatalf("unexpected decoded payload: %+v", create)
	}
}

func TestDecodeMalformedBytes(t *testing.T) {
	_, _, err := Decode([]byte("{not json"))
	if !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	raw := `{
		"command_id": "c-1",
		"command_type": "CreateOrderCommand",
		"timestamp": "2026-03-14T09:30:00Z",
		"payload": {
			"order_id": "O1",
			"product_id": "P1",
			"total_price": 200,
			"created_at": "2026-03-14T09:30:00Z",
			"updated_at": "2026-03-14T09:30:00Z"
		}
	}`
	_, _, err := Decode([]byte(raw))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if !strings.Contains(err.Error(), "quantity") {
		t.Fatalf("expected error to name the missing field, got %v", err)
	}
}

func TestDecodeUnknownCommandTypeIsNotAnError(t *testing.T) {
	raw := `{
		"command_id": "c-2",
		"command_type": "ArchiveProductCommand",
		"timestamp": "2026-03-14T09:30:00Z",
		"payload": {"product_id": "P1"}
	}`
	envelope, cmd, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unknown command_type must decode cleanly, got %v", err)
	}
	unknown, ok := cmd.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown variant, got %T", cmd)
	}
	if unknown.Type != "ArchiveProductCommand" {
		t.Fatalf("expected raw type to be preserved, got %s", unknown.Type)
	}
	if envelope.CommandID != "c-2" {
		t.Fatalf("expected envelope fields to survive, got %+v", envelope)
	}
}

func TestDecodeDeleteCommandsRequireOnlyEntityID(t *testing.T) {
	raw := `{
		"command_id": "c-3",
		"command_type": "DeleteProductCommand",
		"timestamp": "2026-03-14T09:30:00Z",
		"payload": {"product_id": "P1"}
	}`
	_, cmd, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode delete failed: %v", err)
	}
	del, ok := cmd.(DeleteProduct)
	if !ok {
		t.Fatalf("expected DeleteProduct variant, got %T", cmd)
	}
	if del.ProductID != "P1" {
		t.Fatalf("unexpected product_id: %s", del.ProductID)
	}
}

func TestDecodeTotalPriceAcceptsFractionalNumbers(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"order_id":    "O1",
		"product_id":  "P1",
		"quantity":    2,
		"total_price": 199.99,
		"created_at":  "2026-03-14T09:30:00Z",
		"updated_at":  "2026-03-14T09:30:00Z",
	})
	envelope := Envelope{
		CommandID:   "c-4",
		CommandType: TypeCreateOrder,
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
	data, err := Encode(envelope)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	_, cmd, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	order := cmd.(CreateOrder)
	if order.TotalPrice != 199.99 {
		t.Fatalf("expected fractional total_price to decode, got %v", order.TotalPrice)
	}
}
