// Package dispatcher implements the Stream Dispatcher (spec §4.7): one
// polling loop per subscriber, leased via eventlog.Store.NextEvent, routed
// by the event's decider to the handler that owns it, acked on success and
// nacked on failure. Grounded on the teacher's pkg/scheduler.Scheduler
// ticker-loop shape (NewX/Start/Stop/run over a stopCh), with the ticker
// replaced by a sleep-only-when-idle loop matching spec §4.7's "if none,
// sleep for polling_delay and repeat".
package dispatcher
