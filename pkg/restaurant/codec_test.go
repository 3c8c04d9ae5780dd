package restaurant_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEventRoundTrip(t *testing.T) {
	original := restaurant.RestaurantCreated{
		ID: "R1", Name: "Diner",
		Menu: menu.Menu{ID: "M1", Items: []menu.Item{{ID: "I1", Name: "Soup", Price: 4.5}}},
	}

	raw, err := restaurant.EncodeEvent(original)
	require.NoError(t, err)

	decoded, err := restaurant.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeEventOrderPlaced(t *testing.T) {
	original := restaurant.OrderPlaced{ID: "R1", OrderID: "O1", Items: []menu.LineItem{{ID: "L1", MenuItemID: "MI1", Quantity: 2}}}

	raw, err := restaurant.EncodeEvent(original)
	require.NoError(t, err)

	decoded, err := restaurant.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
