package restaurant

import "github.com/cuemby/bistro/pkg/codec"

// eventRegistry maps each event's wire tag to a factory returning a pointer
// to the zero value, as pkg/codec's Decode requires so json.Unmarshal has
// somewhere to write.
var eventRegistry = codec.Registry[Event]{
	"RestaurantCreated":       func() Event { return &RestaurantCreated{} },
	"RestaurantNotCreated":    func() Event { return &RestaurantNotCreated{} },
	"RestaurantMenuChanged":   func() Event { return &RestaurantMenuChanged{} },
	"RestaurantMenuNotChanged": func() Event { return &RestaurantMenuNotChanged{} },
	"OrderPlaced":             func() Event { return &OrderPlaced{} },
	"OrderNotPlaced":          func() Event { return &OrderNotPlaced{} },
}

// EncodeEvent serializes a Restaurant event into the tagged-union wire
// format (spec §6).
func EncodeEvent(evt Event) ([]byte, error) {
	return codec.Encode(evt.EventName(), evt)
}

// DecodeEvent parses the tagged-union wire format back into a Restaurant
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
	case *RestaurantCreated:
		return *e
	case *RestaurantNotCreated:
		return *e
	case *RestaurantMenuChanged:
		return *e
	case *RestaurantMenuNotChanged:
		return *e
	case *OrderPlaced:
		return *e
	case *OrderNotPlaced:
		return *e
	default:
		return evt
	}
}
