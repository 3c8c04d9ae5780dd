package dispatcher_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cuemby/bistro/pkg/dispatcher"
	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves a fixed queue of events to NextEvent and records
// ack/nack calls. It is not a full eventlog.Store; only the methods the
// dispatcher calls matter.
type fakeStore struct {
	mu     sync.Mutex
	queue  []eventlog.Event
	acked  []string
	nacked []string
}

func (s *fakeStore) RegisterDeciderEvent(decider, eventName string) error { return nil }
func (s *fakeStore) CreateSubscription(sub eventlog.Subscription) error   { return nil }
func (s *fakeStore) ListEvents(decider, deciderID string) ([]eventlog.Event, error) {
	return nil, nil
}
func (s *fakeStore) LatestEvent(decider, deciderID string) (eventlog.Event, bool, error) {
	return eventlog.Event{}, false, nil
}
func (s *fakeStore) AppendEvents(batch []eventlog.NewEvent) ([]eventlog.Event, error) {
	return nil, nil
}

func (s *fakeStore) NextEvent(subscriber string) (eventlog.Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return eventlog.Event{}, false, nil
	}
	evt := s.queue[0]
	s.queue = s.queue[1:]
	return evt, true, nil
}

func (s *fakeStore) Ack(subscriber, decider, deciderID string, offset uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, deciderID)
	return nil
}

func (s *fakeStore) Nack(subscriber, decider, deciderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nacked = append(s.nacked, deciderID)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func TestPassRoutesKnownDeciderAndAcksOnSuccess(t *testing.T) {
	store := &fakeStore{queue: []eventlog.Event{
		{Decider: "Restaurant", DeciderID: "R1", EventName: "RestaurantCreated", Offset: 1},
	}}
	var handled []string
	d := dispatcher.New(store, "view", time.Millisecond, map[string]dispatcher.Route{
		"Restaurant": func(evt eventlog.Event) error {
			handled = append(handled, evt.DeciderID)
			return nil
		},
	})

	d.Start()
	require.Eventually(t, func() bool { return len(store.acked) == 1 }, time.Second, time.Millisecond)
	d.Stop()

	assert.Equal(t, []string{"R1"}, handled)
	assert.Equal(t, []string{"R1"}, store.acked)
	assert.Empty(t, store.nacked)
}

func TestPassSkipsAndAcksUnknownDecider(t *testing.T) {
	store := &fakeStore{queue: []eventlog.Event{
		{Decider: "Unknown", DeciderID: "U1", Offset: 1},
	}}
	d := dispatcher.New(store, "view", time.Millisecond, map[string]dispatcher.Route{})

	d.Start()
	require.Eventually(t, func() bool { return len(store.acked) == 1 }, time.Second, time.Millisecond)
	d.Stop()

	assert.Equal(t, []string{"U1"}, store.acked)
}

func TestPassNacksOnHandlerFailure(t *testing.T) {
	store := &fakeStore{queue: []eventlog.Event{
		{Decider: "Restaurant", DeciderID: "R1", Offset: 1},
	}}
	d := dispatcher.New(store, "view", time.Millisecond, map[string]dispatcher.Route{
		"Restaurant": func(evt eventlog.Event) error { return errors.New("boom") },
	})

	d.Start()
	require.Eventually(t, func() bool { return len(store.nacked) == 1 }, time.Second, time.Millisecond)
	d.Stop()

	assert.Equal(t, []string{"R1"}, store.nacked)
	assert.Empty(t, store.acked)
}

func TestStopReturnsWithoutBlocking(t *testing.T) {
	store := &fakeStore{}
	d := dispatcher.New(store, "view", 10*time.Millisecond, map[string]dispatcher.Route{})

	d.Start()
	d.Stop()
	// Stop should not panic or block; nothing further to assert since an
	// empty queue never acks or nacks.
}
