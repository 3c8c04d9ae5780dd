package saga

import (
	"fmt"

	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/metrics"
	"github.com/rs/zerolog"
)

// Dispatch delivers a reaction command to its target Aggregate. Callers
// typically adapt an aggregate.Aggregate[C, S, E].Handle, discarding the
// persisted events and keeping only the error.
type Dispatch[C fmodel.Command] func(C) error

// Manager hosts a fmodel.Saga[E, C] and dispatches its reactions.
type Manager[E fmodel.Event, C fmodel.Command] struct {
	Saga     fmodel.Saga[E, C]
	SagaName string
	Dispatch Dispatch[C]
	Logger   zerolog.Logger
}

// Handle reacts to evt and dispatches each resulting command in order,
// stopping at the first failure (spec §4.6). An event that produces no
// commands is a no-op.
func (m *Manager[E, C]) Handle(evt E) error {
	commands := m.Saga.React(evt)

	for _, cmd := range commands {
		if err := m.Dispatch(cmd); err != nil {
			return fmt.Errorf("saga %s: dispatch command: %w", m.SagaName, err)
		}
		metrics.SagaDispatchedTotal.WithLabelValues(m.SagaName).Inc()
		m.Logger.Debug().Str("stream_id", cmd.StreamID()).Msg("reaction dispatched")
	}

	return nil
}
