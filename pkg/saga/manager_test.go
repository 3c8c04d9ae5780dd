package saga_test

import (
	"errors"
	"testing"

	"github.com/cuemby/bistro/pkg/fmodel"
	"github.com/cuemby/bistro/pkg/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceEvent struct{ id string }

func (e sourceEvent) StreamID() string  { return e.id }
func (e sourceEvent) EventName() string { return "SourceEvent" }

type otherEvent struct{ id string }

func (e otherEvent) StreamID() string  { return e.id }
func (e otherEvent) EventName() string { return "OtherEvent" }

type targetCommand struct{ id string }

func (c targetCommand) StreamID() string { return c.id }

var testSaga = fmodel.Saga[fmodel.Event, targetCommand]{
	React: func(evt fmodel.Event) []targetCommand {
		if e, ok := evt.(sourceEvent); ok {
			return []targetCommand{{id: e.id}}
		}
		return nil
	},
}

func TestHandleDispatchesReactionCommand(t *testing.T) {
	var dispatched []string
	manager := saga.Manager[fmodel.Event, targetCommand]{
		Saga:     testSaga,
		SagaName: "test_saga",
		Dispatch: func(cmd targetCommand) error {
			dispatched = append(dispatched, cmd.id)
			return nil
		},
	}

	err := manager.Handle(sourceEvent{id: "S1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, dispatched)
}

func TestHandleIsNoopForUnreactedEvent(t *testing.T) {
	called := false
	manager := saga.Manager[fmodel.Event, targetCommand]{
		Saga:     testSaga,
		SagaName: "test_saga",
		Dispatch: func(cmd targetCommand) error {
			called = true
			return nil
		},
	}

	err := manager.Handle(otherEvent{id: "S1"})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestHandleSurfacesDispatchFailure(t *testing.T) {
	manager := saga.Manager[fmodel.Event, targetCommand]{
		Saga:     testSaga,
		SagaName: "test_saga",
		Dispatch: func(cmd targetCommand) error {
			return errors.New("aggregate unavailable")
		},
	}

	err := manager.Handle(sourceEvent{id: "S1"})

	assert.Error(t, err)
}
