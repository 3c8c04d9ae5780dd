package dispatcher

import (
	"time"

	"github.com/cuemby/bistro/pkg/eventlog"
	"github.com/cuemby/bistro/pkg/log"
	"github.com/cuemby/bistro/pkg/metrics"
	"github.com/rs/zerolog"
)

// Route decodes evt.Data into the domain event type a view or saga expects
// and invokes its Handle. Routes are keyed by decider name: a Dispatcher
// for the "view" subscriber holds one Route per decider with a view; a
// Dispatcher for "saga" holds one Route per decider with a saga.
type Route func(evt eventlog.Event) error

// Dispatcher runs the polling loop for one subscriber.
type Dispatcher struct {
	Store        eventlog.Store
	Subscriber   string
	PollingDelay time.Duration
	Routes       map[string]Route
	Logger       zerolog.Logger

	// Wake, if set, lets an idle pass return early instead of sleeping out
	// the full PollingDelay. A nil Wake still polls correctly, just with
	// worse average latency.
	Wake <-chan struct{}

	stopCh chan struct{}
}

// New builds a Dispatcher for subscriber, routing events by decider name
// to routes. An event whose decider has no entry in routes is skipped and
// acked immediately (spec §4.7 step 3: "anything else -> skip + ack").
func New(store eventlog.Store, subscriber string, pollingDelay time.Duration, routes map[string]Route) *Dispatcher {
	return &Dispatcher{
		Store:        store,
		Subscriber:   subscriber,
		PollingDelay: pollingDelay,
		Routes:       routes,
		Logger:       log.WithSubscriber(subscriber),
		stopCh:       make(chan struct{}),
	}
}

// Start runs the loop in its own goroutine.
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop signals the loop to exit after its current pass.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
}

func (d *Dispatcher) run() {
	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		if d.pass() {
			continue
		}

		select {
		case <-time.After(d.PollingDelay):
		case <-d.Wake:
		case <-d.stopCh:
			return
		}
	}
}

// pass runs one next_event/route/ack-or-nack cycle. It returns true if an
// event was available (whether or not handling it succeeded), so the loop
// can immediately try for the next one instead of sleeping.
func (d *Dispatcher) pass() bool {
	evt, ok, err := d.Store.NextEvent(d.Subscriber)
	if err != nil {
		d.Logger.Error().Err(err).Msg("next_event failed")
		return false
	}
	if !ok {
		return false
	}
	metrics.DispatcherLeasesAcquiredTotal.WithLabelValues(d.Subscriber).Inc()

	route, known := d.Routes[evt.Decider]
	if !known {
		if err := d.Store.Ack(d.Subscriber, evt.Decider, evt.DeciderID, evt.Offset); err != nil {
			d.Logger.Error().Err(err).Str("decider", evt.Decider).Msg("ack failed for skipped event")
		}
		return true
	}

	timer := metrics.NewTimer()
	handleErr := route(evt)
	timer.ObserveDurationVec(metrics.DispatcherHandleDuration, d.Subscriber)

	if handleErr != nil {
		d.Logger.Error().Err(handleErr).
			Str("decider", evt.Decider).
			Str("decider_id", evt.DeciderID).
			Msg("handler failed, nacking")
		metrics.DispatcherNacksTotal.WithLabelValues(d.Subscriber).Inc()
		if err := d.Store.Nack(d.Subscriber, evt.Decider, evt.DeciderID); err != nil {
			d.Logger.Error().Err(err).Msg("nack failed")
		}
		return true
	}

	if err := d.Store.Ack(d.Subscriber, evt.Decider, evt.DeciderID, evt.Offset); err != nil {
		d.Logger.Error().Err(err).Msg("ack failed")
		return true
	}
	return true
}
