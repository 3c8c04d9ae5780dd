package restaurantview_test

import (
	"testing"

	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/cuemby/bistro/pkg/restaurantview"
	"github.com/stretchr/testify/assert"
)

var testMenu = menu.Menu{ID: "M1", Cuisine: "Vietnamese"}

func TestEvolveOnCreated(t *testing.T) {
	state := restaurantview.View.Evolve(nil, restaurant.RestaurantCreated{ID: "R1", Name: "Chez", Menu: testMenu})
	assert.Equal(t, &restaurantview.Projection{ID: "R1", Name: "Chez", Menu: testMenu}, state)
}

func TestEvolveOnMenuChangedKeepsName(t *testing.T) {
	existing := &restaurantview.Projection{ID: "R1", Name: "Chez", Menu: testMenu}
	newMenu := menu.Menu{ID: "M2", Cuisine: "Japanese"}

	state := restaurantview.View.Evolve(existing, restaurant.RestaurantMenuChanged{ID: "R1", Menu: newMenu})

	assert.Equal(t, &restaurantview.Projection{ID: "R1", Name: "Chez", Menu: newMenu}, state)
}

func TestEvolveIsIdentityOnNegativeEvents(t *testing.T) {
	existing := &restaurantview.Projection{ID: "R1", Name: "Chez", Menu: testMenu}

	state := restaurantview.View.Evolve(existing, restaurant.RestaurantNotCreated{ID: "R1"})

	assert.Same(t, existing, state)
}
