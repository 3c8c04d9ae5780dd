package codec

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire representation: {"type": "...", "data": {...}}.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Registry maps a variant's type tag to a factory producing a fresh,
// addressable zero value of that variant (typically a pointer, e.g.
// func() *RestaurantCreated { return &RestaurantCreated{} }).
type Registry[T any] map[string]func() T

// Encode wraps payload in the tagged-union envelope under typeTag.
func Encode(typeTag string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %s payload: %w", typeTag, err)
	}
	return json.Marshal(envelope{Type: typeTag, Data: data})
}

// Decode reads the envelope's type tag, looks up the matching factory in
// reg, and unmarshals data into the fresh value it produces.
func Decode[T any](raw []byte, reg Registry[T]) (T, error) {
	var zero T
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("codec: unmarshal envelope: %w", err)
	}
	factory, ok := reg[env.Type]
	if !ok {
		return zero, fmt.Errorf("codec: unknown type tag %q", env.Type)
	}
	v := factory()
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return zero, fmt.Errorf("codec: unmarshal %s payload: %w", env.Type, err)
	}
	return v, nil
}

// PeekType returns the envelope's type tag without decoding the payload.
func PeekType(raw []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("codec: unmarshal envelope: %w", err)
	}
	return env.Type, nil
}
