// Package saga implements the Saga Manager runtime (spec §4.6): react to an
// event with zero or more commands, then dispatch each to its target
// Aggregate in order, stopping on the first failure. The Saga Manager
// persists no intent of its own — durability comes from the dispatcher
// only acking the triggering event after dispatch succeeds (spec §4.7),
// so a saga's handlers must be idempotent.
package saga
