// Package ordersaga implements the Order saga: react(OrderPlaced) emits
// CreateOrder; every other Restaurant event produces no commands.
// Grounded on original_source's order_saga.rs exactly.
package ordersaga
