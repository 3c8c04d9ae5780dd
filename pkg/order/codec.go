package order

import "github.com/cuemby/bistro/pkg/codec"

var eventRegistry = codec.Registry[Event]{
	"OrderCreated":      func() Event { return &OrderCreated{} },
	"OrderNotCreated":   func() Event { return &OrderNotCreated{} },
	"OrderPrepared":     func() Event { return &OrderPrepared{} },
	"OrderNotPrepared":  func() Event { return &OrderNotPrepared{} },
	"OrderCancelled":    func() Event { return &OrderCancelled{} },
	"OrderNotCancelled": func() Event { return &OrderNotCancelled{} },
}

// EncodeEvent serializes an Order event into the tagged-union wire format
// (spec §6).
func EncodeEvent(evt Event) ([]byte, error) {
	return codec.Encode(evt.EventName(), evt)
}

// DecodeEvent parses the tagged-union wire format back into an Order
// event, dereferencing the pointer pkg/codec hands back so the result is
// the same value type Decide/Evolve switch on.
func DecodeEvent(raw []byte) (Event, error) {
	evt, err := codec.Decode(raw, eventRegistry)
	if err != nil {
		return nil, err
	}
	return deref(evt), nil
}

func deref(evt Event) Event {
	switch e := evt.(type) {
	case *OrderCreated:
		return *e
	case *OrderNotCreated:
		return *e
	case *OrderPrepared:
		return *e
	case *OrderNotPrepared:
		return *e
	case *OrderCancelled:
		return *e
	case *OrderNotCancelled:
		return *e
	default:
		return evt
	}
}
