// Package fmodel holds the generic, pure building blocks of the event-sourced
// runtime: the decider, the view, and the saga. Every type here is a plain
// value or a record of function fields — no I/O, no storage, no clock.
//
// A Decider is a triple (initial state, decide, evolve) that turns a command
// into new events and folds events into state. A View is the read-side
// analogue: it only folds. A Saga reacts to one decider's events by emitting
// commands for another.
//
// Deciders for independent command/event families compose: Combine produces
// a decider over the pair of states that dispatches decide/evolve by which
// side the command or event was lifted into (LeftCommand/RightCommand,
// LeftEvent/RightEvent). This lets two unrelated
// deciders be hosted as one, without either knowing about the other.
package fmodel
