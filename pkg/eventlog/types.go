package eventlog

import (
	"errors"
	"time"
)

// Sentinel error kinds surfaced by the store (spec §7). Callers should check
// with errors.Is; StoreUnavailable also covers append-time constraint
// violations such as an unregistered (decider, event_name) or an append
// against a stream already marked final.
var (
	// ErrVersionConflict means append_events was rejected because another
	// writer already chained an event off the same previous_id.
	ErrVersionConflict = errors.New("eventlog: version conflict")

	// ErrStoreUnavailable covers transport failures and constraint
	// violations other than a version conflict (unregistered event,
	// append to a final stream).
	ErrStoreUnavailable = errors.New("eventlog: store unavailable")

	// ErrDecodeFailure means stored data could not be parsed by a caller.
	ErrDecodeFailure = errors.New("eventlog: decode failure")

	// ErrLeaseMissing means ack/nack was called for a (subscriber, stream)
	// with no lock row.
	ErrLeaseMissing = errors.New("eventlog: lease missing")

	// ErrUnknownSubscriber means next_event was called for a subscriber
	// with no Subscription row.
	ErrUnknownSubscriber = errors.New("eventlog: unknown subscriber")
)

// Event is the immutable record described by spec §3. Data is an opaque,
// self-describing payload (see pkg/codec for the tagged-union wire format);
// the store never interprets it.
type Event struct {
	EventID    string            `json:"event_id"`
	Decider    string            `json:"decider"`
	DeciderID  string            `json:"decider_id"`
	EventName  string            `json:"event_name"`
	Data       []byte            `json:"data"`
	CommandID  string            `json:"command_id,omitempty"`
	PreviousID string            `json:"previous_id,omitempty"`
	Final      bool              `json:"final"`
	Offset     uint64            `json:"offset"`
	CreatedAt  time.Time         `json:"created_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewEvent is the unassigned form an Aggregate prepares before calling
// AppendEvents: offset and created_at are assigned by the store.
type NewEvent struct {
	Decider    string
	DeciderID  string
	EventName  string
	Data       []byte
	CommandID  string
	PreviousID string
	Final      bool
}

// DeciderRegistration declares that a decider family may emit an event
// variant (spec §3). Append of an unregistered (decider, event_name) is
// refused.
type DeciderRegistration struct {
	Decider   string `json:"decider"`
	EventName string `json:"event_name"`
}

// Subscription identifies a logical consumer of the log (spec §3): "view",
// "saga", or any future one.
type Subscription struct {
	ViewName     string        `json:"view_name"`
	PollingDelay time.Duration `json:"polling_delay"`
	StartAt      time.Time     `json:"start_at"`
}

// Lock is the per-(subscriber, stream) lease row from spec §3. The store
// keys it by (ViewName, Decider, DeciderID) rather than the spec's bare
// (view_name, decider_id): two unrelated decider families could otherwise
// mint colliding decider_id values, which would let one family's lease
// block delivery of another's events to the same subscriber. This narrows
// the key, it never widens the guarantee the spec asks for.
type Lock struct {
	ViewName    string    `json:"view_name"`
	Decider     string    `json:"decider"`
	DeciderID   string    `json:"decider_id"`
	Offset      uint64    `json:"offset"`
	LastOffset  uint64    `json:"last_offset"`
	LockedUntil time.Time `json:"locked_until"`
	OffsetFinal bool      `json:"offset_final"`
}
