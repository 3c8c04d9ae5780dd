package restaurantview

import (
	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/restaurant"
)

// Name identifies this view as a subscriber (spec §3 Subscription).
const Name = "restaurant_view"

// Projection is the folded, queryable shape of a restaurant.
type Projection struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Menu menu.Menu `json:"menu"`
}

// View folds restaurant.Event into *Projection. Every variant other than
// RestaurantCreated/RestaurantMenuChanged is an identity fold, matching
// spec §4.3's "total over all event variants" requirement.
var View = fmodel.View[*Projection, restaurant.Event]{
	InitialState: func() *Projection { return nil },

	Evolve: func(state *Projection, evt restaurant.Event) *Projection {
		switch e := evt.(type) {
		case restaurant.RestaurantCreated:
			return &Projection{ID: e.ID, Name: e.Name, Menu: e.Menu}
		case restaurant.RestaurantMenuChanged:
			if state == nil {
				return nil
			}
			return &Projection{ID: e.ID, Name: state.Name, Menu: e.Menu}
		default:
			return state
		}
	},
}
