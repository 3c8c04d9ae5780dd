package restaurant_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/stretchr/testify/assert"
)

var testMenu = menu.Menu{
	ID:      "M1",
	Cuisine: "Vietnamese",
	Items:   []menu.Item{{ID: "MI1", Name: "Item 1", Price: 100.1}},
}

func TestCreateRestaurant(t *testing.T) {
	cmd := restaurant.CreateRestaurant{ID: "R1", Name: "Chez", Menu: testMenu}

	events := restaurant.Decider.Decide(cmd, nil)

	assert.Equal(t, []restaurant.Event{
		restaurant.RestaurantCreated{ID: "R1", Name: "Chez", Menu: testMenu},
	}, events)

	state := fmodel.Fold(restaurant.Decider.InitialState, restaurant.Decider.Evolve, events)
	assert.Equal(t, &restaurant.State{ID: "R1", Name: "Chez", Menu: testMenu}, state)
}

func TestCreateRestaurantTwiceIsRefused(t *testing.T) {
	existing := &restaurant.State{ID: "R1", Name: "Chez", Menu: testMenu}
	cmd := restaurant.CreateRestaurant{ID: "R1", Name: "Chez", Menu: testMenu}

	events := restaurant.Decider.Decide(cmd, existing)

	assert.Equal(t, []restaurant.Event{
		restaurant.RestaurantNotCreated{ID: "R1", Name: "Chez", Menu: testMenu, Reason: "Restaurant already exists"},
	}, events)
}

func TestChangeMenuAgainstUnknownRestaurantIsRefused(t *testing.T) {
	cmd := restaurant.ChangeMenu{ID: "R1", Menu: testMenu}

	events := restaurant.Decider.Decide(cmd, nil)

	assert.Equal(t, []restaurant.Event{
		restaurant.RestaurantMenuNotChanged{ID: "R1", Menu: testMenu, Reason: "Restaurant does not exist"},
	}, events)
}

func TestChangeMenuUpdatesMenuOnly(t *testing.T) {
	existing := &restaurant.State{ID: "R1", Name: "Chez", Menu: testMenu}
	newMenu := menu.Menu{ID: "M2", Cuisine: "Japanese", Items: testMenu.Items}
	cmd := restaurant.ChangeMenu{ID: "R1", Menu: newMenu}

	events := restaurant.Decider.Decide(cmd, existing)
	assert.Equal(t, []restaurant.Event{restaurant.RestaurantMenuChanged{ID: "R1", Menu: newMenu}}, events)

	state := restaurant.Decider.Evolve(existing, events[0])
	assert.Equal(t, &restaurant.State{ID: "R1", Name: "Chez", Menu: newMenu}, state)
}

func TestPlaceOrderAgainstUnknownRestaurantIsRefused(t *testing.T) {
	items := []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Name: "Item 1", Quantity: 1}}
	cmd := restaurant.PlaceOrder{ID: "R1", OrderID: "O1", Items: items}

	events := restaurant.Decider.Decide(cmd, nil)

	assert.Equal(t, []restaurant.Event{
		restaurant.OrderNotPlaced{ID: "R1", OrderID: "O1", Items: items, Reason: "Restaurant does not exist"},
	}, events)
}

func TestPlaceOrderWithItemNotOnMenuIsRefused(t *testing.T) {
	existing := &restaurant.State{ID: "R1", Name: "Chez", Menu: testMenu}
	items := []menu.LineItem{{ID: "L1", MenuItemID: "unknown", Name: "Ghost", Quantity: 1}}
	cmd := restaurant.PlaceOrder{ID: "R1", OrderID: "O1", Items: items}

	events := restaurant.Decider.Decide(cmd, existing)

	assert.Equal(t, []restaurant.Event{
		restaurant.OrderNotPlaced{ID: "R1", OrderID: "O1", Items: items, Reason: "Item not on menu"},
	}, events)
}

func TestPlaceOrderSucceeds(t *testing.T) {
	existing := &restaurant.State{ID: "R1", Name: "Chez", Menu: testMenu}
	items := []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Name: "Item 1", Quantity: 1}}
	cmd := restaurant.PlaceOrder{ID: "R1", OrderID: "O1", Items: items}

	events := restaurant.Decider.Decide(cmd, existing)

	assert.Equal(t, []restaurant.Event{
		restaurant.OrderPlaced{ID: "R1", OrderID: "O1", Items: items},
	}, events)
}
