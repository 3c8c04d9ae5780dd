package eventlog

import "time"

// Store is the Event Log Store contract from spec §4.1. Implementations
// must make NextEvent, AppendEvents, Ack, and Nack atomic with respect to
// concurrent callers; RaftStore (raftstore.go) does this by routing every
// mutation through a single-node Raft FSM's Apply.
type Store interface {
	// RegisterDeciderEvent idempotently creates the (decider, event_name)
	// row that AppendEvents checks against.
	RegisterDeciderEvent(decider, eventName string) error

	// CreateSubscription idempotently creates a Subscription row. Called
	// once at system initialization for each subscriber.
	CreateSubscription(sub Subscription) error

	// ListEvents returns every event for (decider, deciderID) ordered by
	// offset ascending.
	ListEvents(decider, deciderID string) ([]Event, error)

	// LatestEvent returns the last event appended to (decider, deciderID),
	// or ok=false if the stream is empty. Used for the OCC version probe.
	LatestEvent(decider, deciderID string) (evt Event, ok bool, err error)

	// AppendEvents atomically appends every event in the batch or rejects
	// it whole. Events targeting the same (decider, decider_id) within the
	// batch must chain: the later event's PreviousID must equal the
	// earlier event's assigned EventID. Returns ErrVersionConflict if any
	// event's PreviousID does not match the stream's current chain tip.
	AppendEvents(batch []NewEvent) ([]Event, error)

	// NextEvent atomically picks an eligible event for subscriber — offset
	// greater than the stream's last acknowledged offset, no lease held by
	// another worker — refreshes the (subscriber, stream) lease, and
	// returns it. ok is false if no event is eligible right now.
	NextEvent(subscriber string) (evt Event, ok bool, err error)

	// Ack advances last_offset for (subscriber, decider, deciderID) and
	// releases the lease. Fails with ErrLeaseMissing if no lock exists.
	Ack(subscriber, decider, deciderID string, offset uint64) error

	// Nack releases the lease without advancing last_offset, so the same
	// event is re-served by the next NextEvent call.
	Nack(subscriber, decider, deciderID string) error

	// Close releases underlying resources.
	Close() error
}

// LeaseDuration bounds the worst-case retry delay after a dispatcher worker
// crashes mid-lease (spec §5): locked_until = now + LeaseDuration.
const LeaseDuration = 30 * time.Second
