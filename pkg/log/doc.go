// Package log provides structured logging for bistro using zerolog.
//
// Init sets up the global Logger from a Config (level, JSON vs console
// output). Runtime components attach a scoped child logger via
// WithComponent/WithDecider/WithStreamID/WithSubscriber rather than logging
// through the global Logger directly, so every line carries enough context
// to follow one stream or one subscriber's dispatch loop across a busy log.
package log
