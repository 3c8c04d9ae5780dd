package orderview_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/cuemby/bistro/pkg/orderview"
	"github.com/stretchr/testify/assert"
)

var testItems = []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Name: "Item 1", Quantity: 1}}

func TestEvolveOnCreated(t *testing.T) {
	state := orderview.View.Evolve(nil, order.OrderCreated{
		ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems,
	})
	assert.Equal(t, &orderview.Projection{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}, state)
}

func TestEvolveOnPrepared(t *testing.T) {
	existing := &orderview.Projection{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}

	state := orderview.View.Evolve(existing, order.OrderPrepared{ID: "O1", Status: order.StatusPrepared})

	assert.Equal(t, &orderview.Projection{ID: "O1", RestaurantID: "R1", Status: order.StatusPrepared, Items: testItems}, state)
}

func TestEvolveOnCancelled(t *testing.T) {
	existing := &orderview.Projection{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}

	state := orderview.View.Evolve(existing, order.OrderCancelled{ID: "O1", Status: order.StatusCancelled})

	assert.Equal(t, &orderview.Projection{ID: "O1", RestaurantID: "R1", Status: order.StatusCancelled, Items: testItems}, state)
}

func TestEvolveIsIdentityOnNegativeEvents(t *testing.T) {
	existing := &orderview.Projection{ID: "O1", RestaurantID: "R1", Status: order.StatusCreated, Items: testItems}

	state := orderview.View.Evolve(existing, order.OrderNotPrepared{ID: "O1", Reason: "x"})

	assert.Same(t, existing, state)
}
