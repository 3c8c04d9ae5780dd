// Package eventlog implements the Event Log Store (spec §4.1): a single
// append-only log keyed by (decider, decider_id, offset), with a causal
// previous_id chain per stream, per-subscriber lease-based dispatch, and
// decider/event-name registration used as an append-time guard.
//
// The store is built on an embedded, single-node Raft group over BoltDB,
// the same shape the teacher's cluster store uses for its FSM-applied state
// changes. Every operation that mutates the log (append, ack, nack,
// register, next_event's lease refresh) goes through the Raft FSM's Apply,
// which the Raft library already serializes one call at a time — exactly
// the atomicity spec §4.1 asks of next_event and append_events. Read-only
// queries (list_events, latest_event) read the underlying BoltDB directly.
package eventlog
