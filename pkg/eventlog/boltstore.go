package eventlog

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketEvents        = []byte("events")
	bucketTips          = []byte("stream_tips")
	bucketRegistrations = []byte("registrations")
	bucketSubscriptions = []byte("subscriptions")
	bucketLocks         = []byte("locks")
	bucketMeta          = []byte("meta")

	metaKeyGlobalOffset = []byte("global_offset")
)

// tip is the per-stream chain cursor: the last appended event's id and
// offset, and whether the stream has been closed by a final event.
type tip struct {
	LastEventID string `json:"last_event_id"`
	LastOffset  uint64 `json:"last_offset"`
	Final       bool   `json:"final"`
}

// boltStore is the raw BoltDB bucket layer. It has no concurrency story of
// its own beyond what a single bolt.Tx already gives; RaftStore is what
// gives the cross-worker atomicity spec §4.1 requires, by only ever
// mutating the buckets from inside a single FSM.Apply call.
type boltStore struct {
	db *bolt.DB
}

func openBoltStore(dataDir string) (*boltStore, error) {
	dbPath := filepath.Join(dataDir, "eventlog.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open eventlog db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketEvents, bucketTips, bucketRegistrations, bucketSubscriptions, bucketLocks, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

func streamKey(decider, deciderID string) []byte {
	return []byte(decider + "\x00" + deciderID)
}

func eventKey(decider, deciderID string, offset uint64) []byte {
	return []byte(fmt.Sprintf("%s\x00%020d", streamKey(decider, deciderID), offset))
}

func registrationKey(decider, eventName string) []byte {
	return []byte(decider + "\x00" + eventName)
}

func lockKey(subscriber, decider, deciderID string) []byte {
	return []byte(subscriber + "\x00" + decider + "\x00" + deciderID)
}

func splitLockKey(key []byte) (subscriber, decider, deciderID string) {
	parts := strings.SplitN(string(key), "\x00", 3)
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}

// --- read-only queries (spec §4.1: list_events, latest_event) ---

func (s *boltStore) listEvents(decider, deciderID string) ([]Event, error) {
	var events []Event
	prefix := streamKey(decider, deciderID)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEvents).Cursor()
		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)+"\x00"); k, v = c.Next() {
			var evt Event
			if err := json.Unmarshal(v, &evt); err != nil {
				return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
			}
			events = append(events, evt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Offset < events[j].Offset })
	return events, nil
}

func (s *boltStore) readTip(tx *bolt.Tx, decider, deciderID string) (tip, bool, error) {
	data := tx.Bucket(bucketTips).Get(streamKey(decider, deciderID))
	if data == nil {
		return tip{}, false, nil
	}
	var t tip
	if err := json.Unmarshal(data, &t); err != nil {
		return tip{}, false, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return t, true, nil
}

func (s *boltStore) latestEvent(decider, deciderID string) (Event, bool, error) {
	var evt Event
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		t, ok, err := s.readTip(tx, decider, deciderID)
		if err != nil || !ok {
			return err
		}
		data := tx.Bucket(bucketEvents).Get(eventKey(decider, deciderID, t.LastOffset))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &evt); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		found = true
		return nil
	})
	return evt, found, err
}

func (s *boltStore) isRegistered(decider, eventName string) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(bucketRegistrations).Get(registrationKey(decider, eventName)) != nil
		return nil
	})
	return ok, err
}

func (s *boltStore) readLock(subscriber, decider, deciderID string) (Lock, bool, error) {
	var lock Lock
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketLocks).Get(lockKey(subscriber, decider, deciderID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &lock); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		found = true
		return nil
	})
	return lock, found, err
}

func (s *boltStore) readSubscription(viewName string) (Subscription, bool, error) {
	var sub Subscription
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSubscriptions).Get([]byte(viewName))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &sub); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		found = true
		return nil
	})
	return sub, found, err
}

func encodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
