// Package restaurantview implements the Restaurant materialized view:
// a projection folding RestaurantCreated/RestaurantMenuChanged into a
// RestaurantProjection, identity elsewhere. Grounded on
// original_source's restaurant_view.rs.
package restaurantview
