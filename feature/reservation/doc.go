// Package reservation exposes the reservation records over HTTP: listing,
// single-record lookup, dry-run reconciliation, service line and schedule
// previews, and per-record work-order sync.
//
// The domain logic lives in the subpackages: identity composes uids,
// normalize maps raw feed rows, reconcile classifies batches, flags derives
// turnover and arrival state, and store persists the records.
package reservation
