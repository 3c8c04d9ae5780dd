package order_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/stretchr/testify/assert"
)

var testItems = []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Name: "Item 1", Quantity: 1}}

func TestCreateOrder(t *testing.T) {
	cmd := order.CreateOrder{ID: "O1", RestaurantID: "R1", Items: testItems}

	events := order.Decider.Decide(cmd, nil)

	assert.Equal(t, []order.Event{
		order.OrderCreated{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems},
	}, events)

	state := order.Decider.Evolve(nil, events[0])
	assert.Equal(t, &order.State{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}, state)
}

func TestCreateOrderTwiceIsRefused(t *testing.T) {
	existing := &order.State{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}
	cmd := order.CreateOrder{ID: "O1", RestaurantID: "R1", Items: testItems}

	events := order.Decider.Decide(cmd, existing)

	assert.Equal(t, []order.Event{
		order.OrderNotCreated{ID: "O1", RestaurantID: "R1", Items: testItems, Reason: "Order already exists"},
	}, events)
}

func TestMarkAsPreparedAgainstUnknownOrderIsRefused(t *testing.T) {
	cmd := order.MarkOrderAsPrepared{ID: "O1"}

	events := order.Decider.Decide(cmd, nil)

	assert.Equal(t, []order.Event{
		order.OrderNotPrepared{ID: "O1", Reason: "Order in the wrong status previously"},
	}, events)
}

func TestMarkAsPreparedSucceeds(t *testing.T) {
	existing := &order.State{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}
	cmd := order.MarkOrderAsPrepared{ID: "O1"}

	events := order.Decider.Decide(cmd, existing)

	assert.Equal(t, []order.Event{order.OrderPrepared{ID: "O1", Status: order.StatusPrepared}}, events)
}

func TestMarkAsPreparedAfterAlreadyPreparedIsRefused(t *testing.T) {
	existing := &order.State{ID: "O1", RestaurantID: "R1", Status: order.StatusPrepared, Items: testItems}
	cmd := order.MarkOrderAsPrepared{ID: "O1"}

	events := order.Decider.Decide(cmd, existing)

	assert.Equal(t, []order.Event{
		order.OrderNotPrepared{ID: "O1", Reason: "Order in the wrong status previously"},
	}, events)
}

func TestCancelCreatedOrderSucceeds(t *testing.T) {
	existing := &order.State{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}
	cmd := order.CancelOrder{ID: "O1"}

	events := order.Decider.Decide(cmd, existing)

	assert.Equal(t, []order.Event{order.OrderCancelled{ID: "O1", Status: order.StatusCancelled}}, events)
}

func TestCancelPreparedOrderIsRefused(t *testing.T) {
	existing := &order.State{ID: "O1", RestaurantID: "R1", Status: order.StatusPrepared, Items: testItems}
	cmd := order.CancelOrder{ID: "O1"}

	events := order.Decider.Decide(cmd, existing)

	assert.Equal(t, []order.Event{
		order.OrderNotCancelled{ID: "O1", Reason: "Order in the wrong status previously"},
	}, events)
}
