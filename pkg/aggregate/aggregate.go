package aggregate

import (
	"errors"
	"fmt"

	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/metrics"
	"github.com/cuemby/bistro/pkg/notify"
	"github.com/rs/zerolog"
)

// Codec decouples the Aggregate from any one wire format. pkg/codec
// satisfies this via codec.Encode/codec.Decode partial application.
type Codec[E fmodel.Event] struct {
	Encode func(E) ([]byte, error)
	Decode func([]byte) (E, error)
}

// Aggregate hosts a fmodel.Decider[C, S, E] against a shared eventlog.Store,
// implementing the handle algorithm from spec §4.4.
type Aggregate[C fmodel.Command, S any, E fmodel.Event] struct {
	Decider     fmodel.Decider[C, S, E]
	Store       eventlog.Store
	DeciderName string
	Codec       Codec[E]
	Logger      zerolog.Logger

	// Notifier, if set, is broadcast to after a successful append so a
	// waiting Dispatcher can re-poll immediately instead of waiting out
	// its polling_delay.
	Notifier *notify.Broker
}

// Handle loads the command's stream, folds it to current state, decides,
// and appends the resulting events under optimistic concurrency control.
// It returns the persisted events (possibly a negative/refusal event) or
// an error if the store rejected the append.
func (a *Aggregate[C, S, E]) Handle(cmd C) ([]eventlog.Event, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.CommandHandleDuration, a.DeciderName)

	streamID := cmd.StreamID()

	stored, err := a.Store.ListEvents(a.DeciderName, streamID)
	if err != nil {
		metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, "error").Inc()
		return nil, fmt.Errorf("aggregate %s: list events for %s: %w", a.DeciderName, streamID, err)
	}

	state := a.Decider.InitialState()
	var version string
	for _, stored := range stored {
		evt, err := a.Codec.Decode(stored.Data)
		if err != nil {
			metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, "error").Inc()
			return nil, fmt.Errorf("aggregate %s: decode event %s: %w", a.DeciderName, stored.EventID, err)
		}
		state = a.Decider.Evolve(state, evt)
		version = stored.EventID
	}

	newEvents := a.Decider.Decide(cmd, state)
	if len(newEvents) == 0 {
		metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, "noop").Inc()
		return nil, nil
	}

	versions := map[string]string{streamID: version}
	batch := make([]eventlog.NewEvent, 0, len(newEvents))

	for _, evt := range newEvents {
		sid := evt.StreamID()
		previous, known := versions[sid]
		if !known {
			latest, ok, err := a.Store.LatestEvent(a.DeciderName, sid)
			if err != nil {
				metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, "error").Inc()
				return nil, fmt.Errorf("aggregate %s: latest event for %s: %w", a.DeciderName, sid, err)
			}
			if ok {
				previous = latest.EventID
			}
		}

		data, err := a.Codec.Encode(evt)
		if err != nil {
			metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, "error").Inc()
			return nil, fmt.Errorf("aggregate %s: encode event: %w", a.DeciderName, err)
		}

		batch = append(batch, eventlog.NewEvent{
			Decider:    a.DeciderName,
			DeciderID:  sid,
			EventName:  evt.EventName(),
			Data:       data,
			PreviousID: previous,
		})

		// Every decide() in this runtime returns at most one event per
		// stream. Event ids are assigned by the store, so a second event
		// for the same stream cannot chain off the first: it re-probes
		// LatestEvent, gets the tip from before this batch, and the store
		// rejects the whole batch with ErrVersionConflict.
		delete(versions, sid)
	}

	persisted, err := a.Store.AppendEvents(batch)
	if err != nil {
		outcome := "error"
		if errors.Is(err, eventlog.ErrVersionConflict) {
			outcome = "conflict"
			metrics.VersionConflictsTotal.WithLabelValues(a.DeciderName).Inc()
		}
		metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, outcome).Inc()
		return nil, fmt.Errorf("aggregate %s: append events: %w", a.DeciderName, err)
	}

	metrics.EventsAppendedTotal.WithLabelValues(a.DeciderName).Add(float64(len(persisted)))
	metrics.CommandsHandledTotal.WithLabelValues(a.DeciderName, "ok").Inc()
	a.Logger.Debug().Str("stream_id", streamID).Int("events", len(persisted)).Msg("command handled")

	if a.Notifier != nil {
		a.Notifier.Broadcast()
	}

	return persisted, nil
}
