// Package reconcile implements the reservation reconciliation engine.
//
// A pass diffs an incoming batch of canonical reservations against a snapshot
// of the record store for one scope (source + property set) and classifies
// every record as New, Unchanged, Modified, or Removed. Identity-key changes
// are handled with the clone-mark-create pattern: the old record is marked
// Removed and annotated, a new record is created, and the pair is linked for
// audit — a uid is never edited in place.
//
// # Plan / Apply split
//
// Plan is a pure function: it mutates neither its batch nor its snapshot, and
// identical inputs always yield identical output (this idempotence is what
// makes re-invocation after a crash safe without distributed locks). Apply
// performs the buffered writes, chunked to the record store's batch limit.
//
// # Snapshots
//
// Take reads one scope's state once; the run treats it as immutable.
// SnapshotCache adds TTL caching with singleflight for read-heavy HTTP
// callers, constructed per environment rather than held in package state.
package reconcile
