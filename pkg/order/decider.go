package order

import "github.com/cuemby/bistro/pkg/fmodel"

// Decider is the Order decider described by original_source's
// order_decider.rs, with a CancelOrder branch supplemented (see doc.go).
var Decider = fmodel.Decider[Command, *State, Event]{
	InitialState: func() *State { return nil },

	Decide: func(cmd Command, state *State) []Event {
		switch c := cmd.(type) {
		case CreateOrder:
			if state != nil {
				return []Event{OrderNotCreated{
					ID: c.ID, RestaurantID: c.RestaurantID, Items: c.Items,
					Reason: "Order already exists",
				}}
			}
			return []Event{OrderCreated{
				ID: c.ID, RestaurantID: c.RestaurantID,
				Status: StatusCreated, Items: c.Items,
			}}

		case MarkOrderAsPrepared:
			if state != nil && state.Status == StatusCreated {
				return []Event{OrderPrepared{ID: c.ID, Status: StatusPrepared}}
			}
			return []Event{OrderNotPrepared{
				ID: c.ID, Reason: "Order in the wrong status previously",
			}}

		case CancelOrder:
			if state != nil && state.Status == StatusCreated {
				return []Event{OrderCancelled{ID: c.ID, Status: StatusCancelled}}
			}
			return []Event{OrderNotCancelled{
				ID: c.ID, Reason: "Order in the wrong status previously",
			}}

		default:
			return nil
		}
	},

	Evolve: func(state *State, evt Event) *State {
		switch e := evt.(type) {
		case OrderCreated:
			return &State{ID: e.ID, RestaurantID: e.RestaurantID, Status: e.Status, Items: e.Items}
		case OrderNotCreated:
			return state
		case OrderPrepared:
			if state == nil {
				return nil
			}
			return &State{ID: e.ID, RestaurantID: state.RestaurantID, Status: e.Status, Items: state.Items}
		case OrderNotPrepared:
			return state
		case OrderCancelled:
			if state == nil {
				return nil
			}
			return &State{ID: e.ID, RestaurantID: state.RestaurantID, Status: e.Status, Items: state.Items}
		case OrderNotCancelled:
			return state
		default:
			return state
		}
	},
}
