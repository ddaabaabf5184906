package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMalformedMessage marks bytes that are not a well-formed envelope.
	ErrMalformedMessage = errors.New("malformed command message")
	// ErrMissingField marks an envelope whose payload lacks a field required
	// by its declared command_type.
	ErrMissingField = errors.New("missing required command field")
)

var requiredFields = map[Type][]string{
	TypeCreateProduct: {"product_id", "name", "price", "description", "image_url", "created_at", "updated_at"},
	TypeDeleteProduct: {"product_id"},
	TypeCreateOrder:   {"order_id", "product_id", "quantity", "total_price", "created_at", "updated_at"},
	TypeUpdateOrder:   {"order_id"},
	TypeDeleteOrder:   {"order_id"},
}

// NewEnvelope wraps a command into a wire envelope with a fresh command_id
// and the given UTC creation time.
func NewEnvelope(cmd Command, timestamp time.Time) (Envelope, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode command payload: %w", err)
	}
	return Envelope{
		CommandID:   uuid.NewString(),
		CommandType: cmd.commandType(),
		Timestamp:   timestamp.UTC(),
		Payload:     payload,
	}, nil
}

// Encode serializes an envelope to its UTF-8 JSON wire form.
func Encode(envelope Envelope) ([]byte, error) {
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode command envelope: %w", err)
	}
	return data, nil
}

// Decode parses wire bytes into the envelope and its typed command variant.
// An unrecognized command_type is not a decode error; it yields Unknown so
// consumers can reject it after the offset is accounted for.
func Decode(data []byte) (Envelope, Command, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	required, recognized := requiredFields[envelope.CommandType]
	if !recognized {
		return envelope, Unknown{Type: envelope.CommandType}, nil
	}

	var fields map[string]json.RawMessage
	if len(envelope.Payload) > 0 {
		if err := json.Unmarshal(envelope.Payload, &fields); err != nil {
			return envelope, nil, fmt.Errorf("%w: payload: %v", ErrMalformedMessage, err)
		}
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return envelope, nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	cmd, err := decodePayload(envelope.CommandType, envelope.Payload)
	if err != nil {
		return envelope, nil, err
	}
	return envelope, cmd, nil
}

func decodePayload(commandType Type, payload json.RawMessage) (Command, error) {
	unmarshal := func(target Command) (Command, error) {
		if err := json.Unmarshal(payload, target); err != nil {
			return nil, fmt.Errorf("%w: payload: %v", ErrMalformedMessage, err)
		}
		return target, nil
	}

	switch commandType {
	case TypeCreateProduct:
		cmd, err := unmarshal(&CreateProduct{})
		if err != nil {
			return nil, err
		}
		return *cmd.(*CreateProduct), nil
	case TypeDeleteProduct:
		cmd, err := unmarshal(&DeleteProduct{})
		if err != nil {
			return nil, err
		}
		return *cmd.(*DeleteProduct), nil
	case TypeCreateOrder:
		cmd, err := unmarshal(&CreateOrder{})
		if err != nil {
			return nil, err
		}
		return *cmd.(*CreateOrder), nil
	case TypeUpdateOrder:
		cmd, err := unmarshal(&UpdateOrder{})
		if err != nil {
			return nil, err
		}
		return *cmd.(*UpdateOrder), nil
	case TypeDeleteOrder:
		cmd, err := unmarshal(&DeleteOrder{})
		if err != nil {
			return nil, err
		}
		return *cmd.(*DeleteOrder), nil
	default:
		return Unknown{Type: commandType}, nil
	}
}
