// Package order implements the Order decider: commands CreateOrder,
// MarkOrderAsPrepared, and CancelOrder; events OrderCreated,
// OrderNotCreated, OrderPrepared, OrderNotPrepared, OrderCancelled, and
// OrderNotCancelled. Grounded on original_source's order_decider.rs.
//
// CancelOrder/OrderCancelled/OrderNotCancelled are a supplemented
// feature: original_source's OrderStatus enum already carries a
// Cancelled variant (domain/api.rs) but order_decider.rs never wires a
// command that reaches it. SPEC_FULL completes that trio since
// spec.md's Non-goals never exclude it.
package order
