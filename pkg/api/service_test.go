package api_test

import (
	"encoding/json"
	"testing"

	"github.com/cuemby/bistro/pkg/aggregate"
	"github.com/cuemby/bistro/pkg/api"
	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/cuemby/bistro/pkg/menu"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/cuemby/bistro/pkg/orderview"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/cuemby/bistro/pkg/restaurantview"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	events map[string][]eventlog.Event
}

func newFakeStore() *fakeStore { return &fakeStore{events: make(map[string][]eventlog.Event)} }
func (s *fakeStore) key(decider, id string) string { return decider + "/" + id }

func (s *fakeStore) RegisterDeciderEvent(decider, eventName string) error { return nil }
func (s *fakeStore) CreateSubscription(sub eventlog.Subscription) error   { return nil }
func (s *fakeStore) ListEvents(decider, deciderID string) ([]eventlog.Event, error) {
	return s.events[s.key(decider, deciderID)], nil
}
func (s *fakeStore) LatestEvent(decider, deciderID string) (eventlog.Event, bool, error) {
	evts := s.events[s.key(decider, deciderID)]
	if len(evts) == 0 {
		return eventlog.Event{}, false, nil
	}
	return evts[len(evts)-1], true, nil
}
func (s *fakeStore) AppendEvents(batch []eventlog.NewEvent) ([]eventlog.Event, error) {
	var persisted []eventlog.Event
	for _, ne := range batch {
		key := s.key(ne.Decider, ne.DeciderID)
		existing := s.events[key]
		expected := ""
		if len(existing) > 0 {
			expected = existing[len(existing)-1].EventID
		}
		if ne.PreviousID != expected {
			return nil, eventlog.ErrVersionConflict
		}
		evt := eventlog.Event{
			EventID: uuid.NewString(), Decider: ne.Decider, DeciderID: ne.DeciderID,
			EventName: ne.EventName, Data: ne.Data, PreviousID: ne.PreviousID,
			Offset: uint64(len(existing) + 1),
		}
		s.events[key] = append(existing, evt)
		persisted = append(persisted, evt)
	}
	return persisted, nil
}
func (s *fakeStore) NextEvent(subscriber string) (eventlog.Event, bool, error) {
	return eventlog.Event{}, false, nil
}
func (s *fakeStore) Ack(subscriber, decider, deciderID string, offset uint64) error { return nil }
func (s *fakeStore) Nack(subscriber, decider, deciderID string) error              { return nil }
func (s *fakeStore) Close() error                                                  { return nil }

type fakeRepo struct{ rows map[string][]byte }

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: make(map[string][]byte)} }
func (r *fakeRepo) Get(viewName, streamID string) ([]byte, bool, error) {
	data, ok := r.rows[viewName+"/"+streamID]
	return data, ok, nil
}
func (r *fakeRepo) Put(viewName, streamID string, data []byte) error {
	r.rows[viewName+"/"+streamID] = data
	return nil
}
func (r *fakeRepo) Delete(viewName, streamID string) error {
	delete(r.rows, viewName+"/"+streamID)
	return nil
}
func (r *fakeRepo) All(viewName string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	prefix := viewName + "/"
	for k, v := range r.rows {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out[k[len(prefix):]] = v
		}
	}
	return out, nil
}
func (r *fakeRepo) Close() error { return nil }

func TestSubmitRestaurantCommandAppendsEvent(t *testing.T) {
	store := newFakeStore()
	svc := &api.Service{
		Restaurant: &aggregate.Aggregate[restaurant.Command, *restaurant.State, restaurant.Event]{
			Decider:     restaurant.Decider,
			Store:       store,
			DeciderName: restaurant.DeciderName,
			Codec: aggregate.Codec[restaurant.Event]{
				Encode: func(e restaurant.Event) ([]byte, error) { return json.Marshal(e) },
				Decode: func(data []byte) (restaurant.Event, error) {
					var evt restaurant.RestaurantCreated
					err := json.Unmarshal(data, &evt)
					return evt, err
				},
			},
		},
		RestaurantViews: newFakeRepo(),
		OrderViews:      newFakeRepo(),
	}

	persisted, err := svc.SubmitRestaurantCommand(restaurant.CreateRestaurant{
		ID: "R1", Name: "Diner", Menu: menu.Menu{ID: "M1"},
	})

	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "RestaurantCreated", persisted[0].EventName)
}

func TestListRestaurantProjectionsDecodesRows(t *testing.T) {
	repo := newFakeRepo()
	data, _ := json.Marshal(restaurantview.Projection{ID: "R1", Name: "Diner"})
	require.NoError(t, repo.Put(restaurantview.Name, "R1", data))

	svc := &api.Service{RestaurantViews: repo, OrderViews: newFakeRepo()}

	projections, err := svc.ListRestaurantProjections()

	require.NoError(t, err)
	assert.Equal(t, restaurantview.Projection{ID: "R1", Name: "Diner"}, projections["R1"])
}

func TestListOrderProjectionsDecodesRows(t *testing.T) {
	repo := newFakeRepo()
	data, _ := json.Marshal(orderview.Projection{ID: "O1", Status: order.StatusCreated})
	require.NoError(t, repo.Put(orderview.Name, "O1", data))

	svc := &api.Service{RestaurantViews: newFakeRepo(), OrderViews: repo}

	projections, err := svc.ListOrderProjections()

	require.NoError(t, err)
	assert.Equal(t, orderview.Projection{ID: "O1", Status: order.StatusCreated}, projections["O1"])
}
