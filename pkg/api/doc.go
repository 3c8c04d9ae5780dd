// Package api exposes the command/query surface spec §6 describes, as
// plain Go methods rather than the teacher's gRPC service: submit a
// Restaurant or Order command, list either view's projections, report
// health. Transport (HTTP/JSON, gRPC, mTLS) is explicitly out of scope
// (spec.md §1, §8); the one piece of surface spec.md does keep is a
// liveness probe, served here alongside /metrics over plain net/http,
// matching the teacher's HealthServer shape.
package api
