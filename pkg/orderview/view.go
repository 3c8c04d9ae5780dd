package orderview

import (
	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/order"
)

// Name identifies this view as a subscriber (spec §3 Subscription).
const Name = "order_view"

// Projection is the folded, queryable shape of an order.
type Projection struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Status       order.Status    `json:"status"`
	Items        []menu.LineItem `json:"items"`
}

// View folds order.Event into *Projection.
var View = fmodel.View[*Projection, order.Event]{
	InitialState: func() *Projection { return nil },

	Evolve: func(state *Projection, evt order.Event) *Projection {
		switch e := evt.(type) {
		case order.OrderCreated:
			return &Projection{ID: e.ID, RestaurantID: e.RestaurantID, Status: e.Status, Items: e.Items}
		case order.OrderPrepared:
			if state == nil {
				return nil
			}
			return &Projection{ID: e.ID, RestaurantID: state.RestaurantID, Status: e.Status, Items: state.Items}
		case order.OrderCancelled:
			if state == nil {
				return nil
			}
			return &Projection{ID: e.ID, RestaurantID: state.RestaurantID, Status: e.Status, Items: state.Items}
		default:
			return state
		}
	},
}
