package api

import (
	"encoding/json"
	"fmt"

	"github.com/cuemby/bistro/pkg/aggregate"
	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/cuemby/bistro/pkg/order"
	"github.com/cuemby/bistro/pkg/orderview"
	"github.com/cuemby/bistro/pkg/restaurant"
	"github.com/cuemby/bistro/pkg/restaurantview"
	"github.com/cuemby/bistro/pkg/view"
)

// Service is the command/query surface spec §6 asks for, backed directly
// by the runtime components rather than a network transport.
type Service struct {
	Restaurant      *aggregate.Aggregate[restaurant.Command, *restaurant.State, restaurant.Event]
	Order           *aggregate.Aggregate[order.Command, *order.State, order.Event]
	RestaurantViews view.Repository
	OrderViews      view.Repository
}

// SubmitRestaurantCommand runs a Restaurant command through its Aggregate
// and returns the events it produced (spec §4.4).
func (s *Service) SubmitRestaurantCommand(cmd restaurant.Command) ([]eventlog.Event, error) {
	return s.Restaurant.Handle(cmd)
}

// SubmitOrderCommand runs an Order command through its Aggregate.
func (s *Service) SubmitOrderCommand(cmd order.Command) ([]eventlog.Event, error) {
	return s.Order.Handle(cmd)
}

// ListRestaurantProjections returns every restaurant_view row, keyed by
// restaurant id.
func (s *Service) ListRestaurantProjections() (map[string]restaurantview.Projection, error) {
	rows, err := s.RestaurantViews.All(restaurantview.Name)
	if err != nil {
		return nil, fmt.Errorf("list restaurant projections: %w", err)
	}
	out := make(map[string]restaurantview.Projection, len(rows))
	for id, raw := range rows {
		var p restaurantview.Projection
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode restaurant projection %s: %w", id, err)
		}
		out[id] = p
	}
	return out, nil
}

// ListOrderProjections returns every order_view row, keyed by order id.
func (s *Service) ListOrderProjections() (map[string]orderview.Projection, error) {
	rows, err := s.OrderViews.All(orderview.Name)
	if err != nil {
		return nil, fmt.Errorf("list order projections: %w", err)
	}
	out := make(map[string]orderview.Projection, len(rows))
	for id, raw := range rows {
		var p orderview.Projection
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode order projection %s: %w", id, err)
		}
		out[id] = p
	}
	return out, nil
}
