package view

import (
	"fmt"

	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/metrics"
	"github.com/rs/zerolog"
)

// Codec (de)serializes a view's projection state for storage. S is usually
// a pointer-to-struct, with nil standing for the absent projection.
type Codec[S any] struct {
	Encode func(S) ([]byte, error)
	Decode func([]byte) (S, error)
}

// Runtime hosts a fmodel.View[S, E] against a Repository, implementing the
// handle algorithm from spec §4.5.
type Runtime[S any, E fmodel.Event] struct {
	View     fmodel.View[S, E]
	Repo     Repository
	ViewName string
	Codec    Codec[S]

	// IsAbsent reports whether a folded state means "no projection". When
	// nil, Handle always upserts — the reference views described by spec
	// §4.5 never emit absent after a positive event, so most callers leave
	// this unset.
	IsAbsent func(S) bool

	Logger zerolog.Logger
}

// Handle folds evt onto the stream's current projection and upserts the
// result. Repeated delivery of the same event is safe: evolve is pure and
// Put overwrites the row with the same resulting value.
func (r *Runtime[S, E]) Handle(evt E) error {
	streamID := evt.StreamID()

	raw, found, err := r.Repo.Get(r.ViewName, streamID)
	if err != nil {
		return fmt.Errorf("view %s: get projection %s: %w", r.ViewName, streamID, err)
	}

	current := r.View.InitialState()
	if found {
		current, err = r.Codec.Decode(raw)
		if err != nil {
			return fmt.Errorf("view %s: decode projection %s: %w", r.ViewName, streamID, err)
		}
	}

	newState := r.View.Evolve(current, evt)

	if r.IsAbsent != nil && r.IsAbsent(newState) {
		if err := r.Repo.Delete(r.ViewName, streamID); err != nil {
			return fmt.Errorf("view %s: delete projection %s: %w", r.ViewName, streamID, err)
		}
		return nil
	}

	data, err := r.Codec.Encode(newState)
	if err != nil {
		return fmt.Errorf("view %s: encode projection %s: %w", r.ViewName, streamID, err)
	}
	if err := r.Repo.Put(r.ViewName, streamID, data); err != nil {
		return fmt.Errorf("view %s: put projection %s: %w", r.ViewName, streamID, err)
	}

	metrics.ViewUpsertsTotal.WithLabelValues(r.ViewName).Inc()
	r.Logger.Debug().Str("stream_id", streamID).Msg("projection upserted")
	return nil
}
