package order_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEventRoundTrip(t *testing.T) {
	original := order.OrderCreated{
		ID: "O1", RestaurantID: "R1", Status: order.StatusCreated,
		Items: []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Quantity: 1}},
	}

	raw, err := order.EncodeEvent(original)
	require.NoError(t, err)

	decoded, err := order.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeEventOrderCancelled(t *testing.T) {
	original := order.OrderCancelled{ID: "O1", Status: order.StatusCancelled}

	raw, err := order.EncodeEvent(original)
	require.NoError(t, err)

	decoded, err := order.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
