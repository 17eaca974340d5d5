// Package store provides durable storage for unmake teardown traces.
//
// Every lifecycle event emitted by a registry (created, associated, marked,
// hook, destructor, destroyed) can be appended to a SQLite-backed event
// log. The log is the audit trail a teardown leaves behind: the CLI trace
// command reads it to reconstruct the exact order resources were released,
// and appends are idempotent on seq so re-recording a flushed turn is safe.
//
// Ordering is by the registry's logical seq, never wall-clock time; reads
// return events ORDER BY seq ASC so a stored trace replays in the exact
// order teardown executed.
package store
