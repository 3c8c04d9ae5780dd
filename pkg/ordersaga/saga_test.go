package ordersaga_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/cuemby/bistro/pkg/ordersaga"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/stretchr/testify/assert"
)

func TestReactToOrderPlacedEmitsCreateOrder(t *testing.T) {
	items := []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Name: "Item 1", Quantity: 1}}
	evt := restaurant.OrderPlaced{ID: "R1", OrderID: "O1", Items: items}

	commands := ordersaga.Saga.React(evt)

	assert.Equal(t, []order.Command{order.CreateOrder{ID: "O1", RestaurantID: "R1", Items: items}}, commands)
}

func TestReactToOtherEventsEmitsNothing(t *testing.T) {
	assert.Empty(t, ordersaga.Saga.React(restaurant.RestaurantCreated{ID: "R1"}))
	assert.Empty(t, ordersaga.Saga.React(restaurant.OrderNotPlaced{ID: "R1", OrderID: "O1"}))
}
