// Package orderview implements the Order materialized view: a
// projection folding OrderCreated/OrderPrepared/OrderCancelled into an
// OrderProjection, identity elsewhere. Grounded on original_source's
// order_view.rs, extended with the OrderCancelled branch to match the
// order decider's supplemented CancelOrder command.
package orderview
