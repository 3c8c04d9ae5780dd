package fmodel

// Command is anything a Decider can be asked to handle. StreamID identifies
// the stream (decider_id) the command targets.
type Command interface {
	StreamID() string
}

// Event is a fact a Decider or View folds into state. StreamID identifies the
// stream the event belongs to; EventName is the variant tag used on the wire.
type Event interface {
	StreamID() string
	EventName() string
}

// Decider is the pure triple (initial_state, decide, evolve) from spec §4.2.
// Decide is deterministic and side-effect-free: it may only refuse by
// returning a negative event, never an error. Evolve is total over every
// event variant the family can produce.
type Decider[C Command, S any, E Event] struct {
	InitialState func() S
	Decide       func(cmd C, state S) []E
	Evolve       func(state S, evt E) S
}

// Fold replays a stream of events onto the initial state, in the order
// given. The Aggregate and the View runtime do not call it; they run their
// own evolve steps over stored events.
func Fold[S any, E Event](initial func() S, evolve func(S, E) S, events []E) S {
	state := initial()
	for _, evt := range events {
		state = evolve(state, evt)
	}
	return state
}

// View is the read-side analogue of a Decider: initial_state plus evolve,
// with no decide. Same shape, spec §4.3.
type View[S any, E Event] struct {
	InitialState func() S
	Evolve       func(state S, evt E) S
}

// Saga is a pure function from one decider's event to zero or more commands
// for another decider (spec §4.3). The reference saga reacts to exactly one
// event variant; everything else yields no commands.
type Saga[E Event, C Command] struct {
	React func(evt E) []C
}

// pairCommand and pairEvent let Combine dispatch on which side of two
// disjoint families a command or event actually belongs to, without either
// original Decider being aware of the pairing.
type pairCommand[C1 Command, C2 Command] struct {
	left  C1
	right C2
	isLeft bool
}

func (p pairCommand[C1, C2]) StreamID() string {
	if p.isLeft {
		return p.left.StreamID()
	}
	return p.right.StreamID()
}

type pairEvent[E1 Event, E2 Event] struct {
	left  E1
	right E2
	isLeft bool
}

func (p pairEvent[E1, E2]) StreamID() string {
	if p.isLeft {
		return p.left.StreamID()
	}
	return p.right.StreamID()
}

func (p pairEvent[E1, E2]) EventName() string {
	if p.isLeft {
		return p.left.EventName()
	}
	return p.right.EventName()
}

// Pair is the combined state of two independently-defined deciders.
type Pair[S1 any, S2 any] struct {
	Left  S1
	Right S2
}

// LeftCommand and RightCommand lift a family's command into the combined
// command type Combine's decider expects.
func LeftCommand[C1 Command, C2 Command](cmd C1) pairCommand[C1, C2] {
	return pairCommand[C1, C2]{left: cmd, isLeft: true}
}

func RightCommand[C1 Command, C2 Command](cmd C2) pairCommand[C1, C2] {
	return pairCommand[C1, C2]{right: cmd, isLeft: false}
}

func LeftEvent[E1 Event, E2 Event](evt E1) pairEvent[E1, E2] {
	return pairEvent[E1, E2]{left: evt, isLeft: true}
}

func RightEvent[E1 Event, E2 Event](evt E2) pairEvent[E1, E2] {
	return pairEvent[E1, E2]{right: evt, isLeft: false}
}

// Combine builds a decider over the disjoint union of two command/event
// families (spec §4.2): decide dispatches on which side the incoming command
// came from, evolve dispatches on which side the incoming event came from.
// This is what lets a monolithic runtime host any number of domain deciders
// against one event log.
func Combine[C1 Command, S1 any, E1 Event, C2 Command, S2 any, E2 Event](
	d1 Decider[C1, S1, E1],
	d2 Decider[C2, S2, E2],
) Decider[pairCommand[C1, C2], Pair[S1, S2], pairEvent[E1, E2]] {
	return Decider[pairCommand[C1, C2], Pair[S1, S2], pairEvent[E1, E2]]{
		InitialState: func() Pair[S1, S2] {
			return Pair[S1, S2]{Left: d1.InitialState(), Right: d2.InitialState()}
		},
		Decide: func(cmd pairCommand[C1, C2], state Pair[S1, S2]) []pairEvent[E1, E2] {
			if cmd.isLeft {
				events := d1.Decide(cmd.left, state.Left)
				out := make([]pairEvent[E1, E2], len(events))
				for i, e := range events {
					out[i] = LeftEvent[E1, E2](e)
				}
				return out
			}
			events := d2.Decide(cmd.right, state.Right)
			out := make([]pairEvent[E1, E2], len(events))
			for i, e := range events {
				out[i] = RightEvent[E1, E2](e)
			}
			return out
		},
		Evolve: func(state Pair[S1, S2], evt pairEvent[E1, E2]) Pair[S1, S2] {
			if evt.isLeft {
				return Pair[S1, S2]{Left: d1.Evolve(state.Left, evt.left), Right: state.Right}
			}
			return Pair[S1, S2]{Left: state.Left, Right: d2.Evolve(state.Right, evt.right)}
		},
	}
}
