package ordersaga

import (
	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/cuemby/bistro/pkg/restaurant"
)

// Name identifies this saga as a subscriber (spec §3 Subscription).
const Name = "order_saga"

// Saga reacts to restaurant.Event and issues order.Command. Only
// OrderPlaced produces a reaction (CreateOrder); every other variant
// produces none, matching original_source's order_saga.rs exhaustively.
var Saga = fmodel.Saga[restaurant.Event, order.Command]{
	React: func(evt restaurant.Event) []order.Command {
		if e, ok := evt.(restaurant.OrderPlaced); ok {
			return []order.Command{order.CreateOrder{
				ID:           e.OrderID,
				RestaurantID: e.ID,
				Items:        e.Items,
			}}
		}
		return nil
	},
}
