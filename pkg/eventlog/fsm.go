package eventlog

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/raft"
	bolt "go.etcd.io/bbolt"
)

// Command is one entry in the Raft log: an operation name plus its JSON
// payload. Grounded on the teacher's manager.WarrenFSM command envelope,
// with the operation set changed from cluster-resource CRUD to the Event
// Log Store's primitives (spec §4.1).
type Command struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"data"`
}

const (
	opRegisterDeciderEvent = "register_decider_event"
	opCreateSubscription   = "create_subscription"
	opAppendEvents         = "append_events"
	opAck                  = "ack"
	opNack                 = "nack"
	opNextEvent            = "next_event"
)

type registerPayload struct {
	Decider   string `json:"decider"`
	EventName string `json:"event_name"`
}

type ackPayload struct {
	Subscriber string `json:"subscriber"`
	Decider    string `json:"decider"`
	DeciderID  string `json:"decider_id"`
	Offset     uint64 `json:"offset"`
}

type nackPayload struct {
	Subscriber string `json:"subscriber"`
	Decider    string `json:"decider"`
	DeciderID  string `json:"decider_id"`
}

type nextEventPayload struct {
	Subscriber string `json:"subscriber"`
}

// simpleResponse is returned by Apply for commands with no payload beyond
// success/failure.
type simpleResponse struct{ Err error }

type appendResponse struct {
	Events []Event
	Err    error
}

type nextEventResponse struct {
	Event Event
	Ok    bool
	Err   error
}

// eventlogFSM applies committed Raft log entries to the embedded BoltDB
// store. Because Raft calls Apply for one log entry at a time, every
// mutation below is already serialized with respect to every other
// concurrent caller — this is the mechanism spec §4.1 asks for without
// naming.
type eventlogFSM struct {
	store *boltStore
}

func newEventlogFSM(store *boltStore) *eventlogFSM {
	return &eventlogFSM{store: store}
}

func (f *eventlogFSM) Apply(log *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
	}

	switch cmd.Op {
	case opRegisterDeciderEvent:
		var p registerPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
		}
		return simpleResponse{Err: f.applyRegister(p)}

	case opCreateSubscription:
		var sub Subscription
		if err := json.Unmarshal(cmd.Data, &sub); err != nil {
			return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
		}
		return simpleResponse{Err: f.applyCreateSubscription(sub)}

	case opAppendEvents:
		var batch []NewEvent
		if err := json.Unmarshal(cmd.Data, &batch); err != nil {
			return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
		}
		events, err := f.applyAppend(batch)
		return appendResponse{Events: events, Err: err}

	case opAck:
		var p ackPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
		}
		return simpleResponse{Err: f.applyAck(p)}

	case opNack:
		var p nackPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
		}
		return simpleResponse{Err: f.applyNack(p)}

	case opNextEvent:
		var p nextEventPayload
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			return simpleResponse{Err: fmt.Errorf("%w: %v", ErrDecodeFailure, err)}
		}
		evt, ok, err := f.applyNextEvent(p.Subscriber)
		return nextEventResponse{Event: evt, Ok: ok, Err: err}

	default:
		return simpleResponse{Err: fmt.Errorf("unknown eventlog command: %s", cmd.Op)}
	}
}

func (f *eventlogFSM) applyRegister(p registerPayload) error {
	return f.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRegistrations).Put(registrationKey(p.Decider, p.EventName), []byte{1})
	})
}

func (f *eventlogFSM) applyCreateSubscription(sub Subscription) error {
	if sub.StartAt.IsZero() {
		sub.StartAt = time.Now()
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return f.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSubscriptions)
		if b.Get([]byte(sub.ViewName)) != nil {
			return nil // idempotent-create
		}
		return b.Put([]byte(sub.ViewName), data)
	})
}

// applyAppend validates and writes the whole batch in one BoltDB
// transaction: either every event is written or none is (spec §4.1).
func (f *eventlogFSM) applyAppend(batch []NewEvent) ([]Event, error) {
	var result []Event
	err := f.store.db.Update(func(tx *bolt.Tx) error {
		tips := tx.Bucket(bucketTips)
		events := tx.Bucket(bucketEvents)
		regs := tx.Bucket(bucketRegistrations)
		meta := tx.Bucket(bucketMeta)

		// Track the running tip per stream touched within this batch so
		// consecutive events for the same stream chain against each
		// other, not just against what was already on disk.
		pending := make(map[string]tip)

		offsetCounter := decodeUint64(meta.Get(metaKeyGlobalOffset))

		for _, ne := range batch {
			if regs.Get(registrationKey(ne.Decider, ne.EventName)) == nil {
				return fmt.Errorf("%w: event %q not registered for decider %q", ErrStoreUnavailable, ne.EventName, ne.Decider)
			}

			key := string(streamKey(ne.Decider, ne.DeciderID))
			current, known := pending[key]
			if !known {
				stored, ok, err := f.store.readTip(tx, ne.Decider, ne.DeciderID)
				if err != nil {
					return err
				}
				if ok {
					current = stored
					known = true
				}
			}

			if known && current.Final {
				return fmt.Errorf("%w: stream %s/%s is final", ErrStoreUnavailable, ne.Decider, ne.DeciderID)
			}

			expectedPrevious := ""
			if known {
				expectedPrevious = current.LastEventID
			}
			if ne.PreviousID != expectedPrevious {
				return fmt.Errorf("%w: stream %s/%s expected previous_id %q, got %q", ErrVersionConflict, ne.Decider, ne.DeciderID, expectedPrevious, ne.PreviousID)
			}

			eventID := newEventID()
			offsetCounter++
			evt := Event{
				EventID:    eventID,
				Decider:    ne.Decider,
				DeciderID:  ne.DeciderID,
				EventName:  ne.EventName,
				Data:       ne.Data,
				CommandID:  ne.CommandID,
				PreviousID: ne.PreviousID,
				Final:      ne.Final,
				Offset:     offsetCounter,
				CreatedAt:  time.Now(),
			}

			data, err := json.Marshal(evt)
			if err != nil {
				return err
			}
			if err := events.Put(eventKey(ne.Decider, ne.DeciderID, evt.Offset), data); err != nil {
				return err
			}

			pending[key] = tip{LastEventID: eventID, LastOffset: evt.Offset, Final: ne.Final}
			result = append(result, evt)
		}

		for key, t := range pending {
			decider, deciderID := splitStreamKey(key)
			data, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := tips.Put(streamKey(decider, deciderID), data); err != nil {
				return err
			}
		}

		return meta.Put(metaKeyGlobalOffset, encodeUint64(offsetCounter))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *eventlogFSM) applyAck(p ackPayload) error {
	return f.store.db.Update(func(tx *bolt.Tx) error {
		locks := tx.Bucket(bucketLocks)
		key := lockKey(p.Subscriber, p.Decider, p.DeciderID)
		data := locks.Get(key)
		if data == nil {
			return fmt.Errorf("%w: no lock for %s/%s/%s", ErrLeaseMissing, p.Subscriber, p.Decider, p.DeciderID)
		}
		var lock Lock
		if err := json.Unmarshal(data, &lock); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		lock.LastOffset = p.Offset
		lock.LockedUntil = time.Now()
		out, err := json.Marshal(lock)
		if err != nil {
			return err
		}
		return locks.Put(key, out)
	})
}

func (f *eventlogFSM) applyNack(p nackPayload) error {
	return f.store.db.Update(func(tx *bolt.Tx) error {
		locks := tx.Bucket(bucketLocks)
		key := lockKey(p.Subscriber, p.Decider, p.DeciderID)
		data := locks.Get(key)
		if data == nil {
			return fmt.Errorf("%w: no lock for %s/%s/%s", ErrLeaseMissing, p.Subscriber, p.Decider, p.DeciderID)
		}
		var lock Lock
		if err := json.Unmarshal(data, &lock); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		lock.LockedUntil = time.Now()
		out, err := json.Marshal(lock)
		if err != nil {
			return err
		}
		return locks.Put(key, out)
	})
}

// applyNextEvent picks one eligible event for subscriber: a stream whose
// tip is ahead of the subscriber's last_offset and whose lease (if any) has
// expired. Cross-stream ordering is unspecified (spec §4.1); streams are
// visited in bucket key order, which is stable but not meaningful.
func (f *eventlogFSM) applyNextEvent(subscriber string) (Event, bool, error) {
	var result Event
	found := false

	err := f.store.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSubscriptions).Get([]byte(subscriber)) == nil {
			return ErrUnknownSubscriber
		}

		tips := tx.Bucket(bucketTips)
		locksBucket := tx.Bucket(bucketLocks)
		events := tx.Bucket(bucketEvents)
		now := time.Now()

		c := tips.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			decider, deciderID := splitStreamKey(string(k))

			var t tip
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
			}

			lockData := locksBucket.Get(lockKey(subscriber, decider, deciderID))
			var lock Lock
			hasLock := lockData != nil
			if hasLock {
				if err := json.Unmarshal(lockData, &lock); err != nil {
					return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
				}
				if lock.LockedUntil.After(now) {
					continue // leased by another worker
				}
			}

			lastOffset := lock.LastOffset
			if lastOffset >= t.LastOffset {
				continue // stream fully delivered to this subscriber
			}

			// Find the first event in this stream past lastOffset.
			prefix := streamKey(decider, deciderID)
			ec := events.Cursor()
			var evtData []byte
			for ek, ev := ec.Seek(eventKey(decider, deciderID, lastOffset+1)); ek != nil; ek, ev = ec.Next() {
				if len(ek) < len(prefix) || string(ek[:len(prefix)]) != string(prefix) {
					break
				}
				evtData = ev
				break
			}
			if evtData == nil {
				continue
			}

			var evt Event
			if err := json.Unmarshal(evtData, &evt); err != nil {
				return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
			}

			newLock := Lock{
				ViewName:    subscriber,
				Decider:     decider,
				DeciderID:   deciderID,
				Offset:      evt.Offset,
				LastOffset:  lastOffset,
				LockedUntil: now.Add(LeaseDuration),
				OffsetFinal: t.Final,
			}
			out, err := json.Marshal(newLock)
			if err != nil {
				return err
			}
			if err := locksBucket.Put(lockKey(subscriber, decider, deciderID), out); err != nil {
				return err
			}

			result = evt
			found = true
			return nil
		}

		return nil
	})

	return result, found, err
}

func splitStreamKey(key string) (decider, deciderID string) {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

// snapshot is a point-in-time dump of every bucket the FSM owns, used by
// Raft to compact its log (spec is silent on this; it is required by the
// hashicorp/raft.FSM interface and grounded on manager.WarrenSnapshot).
type snapshot struct {
	Events        []Event              `json:"events"`
	Tips          map[string]tip       `json:"tips"`
	Registrations []registerPayload    `json:"registrations"`
	Subscriptions []Subscription       `json:"subscriptions"`
	Locks         []Lock               `json:"locks"`
	GlobalOffset  uint64               `json:"global_offset"`
}

func (f *eventlogFSM) Snapshot() (raft.FSMSnapshot, error) {
	snap := snapshot{Tips: make(map[string]tip)}

	err := f.store.db.View(func(tx *bolt.Tx) error {
		snap.GlobalOffset = decodeUint64(tx.Bucket(bucketMeta).Get(metaKeyGlobalOffset))

		ec := tx.Bucket(bucketEvents).Cursor()
		for k, v := ec.First(); k != nil; k, v = ec.Next() {
			var evt Event
			if err := json.Unmarshal(v, &evt); err != nil {
				return err
			}
			snap.Events = append(snap.Events, evt)
		}

		tc := tx.Bucket(bucketTips).Cursor()
		for k, v := tc.First(); k != nil; k, v = tc.Next() {
			var t tip
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			snap.Tips[string(k)] = t
		}

		rc := tx.Bucket(bucketRegistrations).Cursor()
		for k, _ := rc.First(); k != nil; k, _ = rc.Next() {
			decider, eventName := splitStreamKey(string(k))
			snap.Registrations = append(snap.Registrations, registerPayload{Decider: decider, EventName: eventName})
		}

		sc := tx.Bucket(bucketSubscriptions).Cursor()
		for k, v := sc.First(); k != nil; k, v = sc.Next() {
			var sub Subscription
			if err := json.Unmarshal(v, &sub); err != nil {
				return err
			}
			snap.Subscriptions = append(snap.Subscriptions, sub)
		}

		lc := tx.Bucket(bucketLocks).Cursor()
		for k, v := lc.First(); k != nil; k, v = lc.Next() {
			var lock Lock
			if err := json.Unmarshal(v, &lock); err != nil {
				return err
			}
			snap.Locks = append(snap.Locks, lock)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build eventlog snapshot: %w", err)
	}

	return &eventlogSnapshot{snapshot: snap}, nil
}

func (f *eventlogFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var snap snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return fmt.Errorf("decode eventlog snapshot: %w", err)
	}

	return f.store.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketEvents, bucketTips, bucketRegistrations, bucketSubscriptions, bucketLocks} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		events := tx.Bucket(bucketEvents)
		for _, evt := range snap.Events {
			data, err := json.Marshal(evt)
			if err != nil {
				return err
			}
			if err := events.Put(eventKey(evt.Decider, evt.DeciderID, evt.Offset), data); err != nil {
				return err
			}
		}

		tips := tx.Bucket(bucketTips)
		for key, t := range snap.Tips {
			data, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := tips.Put([]byte(key), data); err != nil {
				return err
			}
		}

		regs := tx.Bucket(bucketRegistrations)
		for _, r := range snap.Registrations {
			if err := regs.Put(registrationKey(r.Decider, r.EventName), []byte{1}); err != nil {
				return err
			}
		}

		subs := tx.Bucket(bucketSubscriptions)
		for _, sub := range snap.Subscriptions {
			data, err := json.Marshal(sub)
			if err != nil {
				return err
			}
			if err := subs.Put([]byte(sub.ViewName), data); err != nil {
				return err
			}
		}

		locks := tx.Bucket(bucketLocks)
		for _, lock := range snap.Locks {
			data, err := json.Marshal(lock)
			if err != nil {
				return err
			}
			if err := locks.Put(lockKey(lock.ViewName, lock.Decider, lock.DeciderID), data); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketMeta).Put(metaKeyGlobalOffset, encodeUint64(snap.GlobalOffset))
	})
}

type eventlogSnapshot struct {
	snapshot snapshot
}

func (s *eventlogSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := json.NewEncoder(sink).Encode(s.snapshot); err != nil {
			return err
		}
		return sink.Close()
	}()
	if err != nil {
		sink.Cancel()
	}
	return err
}

func (s *eventlogSnapshot) Release() {}
