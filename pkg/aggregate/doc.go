// Package aggregate implements the Event-Sourced Aggregate runtime: per
// command, load a stream, fold it to state, decide, and append the
// resulting events under optimistic concurrency control.
//
// An Aggregate is generic over a fmodel.Decider[C, S, E] and hosts it
// against a shared eventlog.Store. Multiple deciders can share one
// store by running one Aggregate per decider, or by combining their
// deciders with fmodel.Combine and hosting the combination behind a
// single Aggregate.
package aggregate
