// Package view implements the Materialized View runtime (spec §4.5):
// fetch the current projection for a stream, fold the incoming event into
// it, and upsert the result keyed by stream id. Repository is a small
// bbolt-backed store with one bucket per view name, grounded on
// pkg/eventlog's bucket-per-concern layout.
package view
