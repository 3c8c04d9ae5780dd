// Package restaurant implements the Restaurant decider: commands
// CreateRestaurant, ChangeMenu, and PlaceOrder; events RestaurantCreated,
// RestaurantNotCreated, RestaurantMenuChanged, RestaurantMenuNotChanged,
// OrderPlaced, and OrderNotPlaced. Grounded on original_source's
// restaurant_decider.rs, with decide/evolve translated from Rust pattern
// matches into Go type switches.
package restaurant
