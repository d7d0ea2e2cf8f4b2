// Package schedule renders reconciled reservation state into the two values
// the work-order store consumes: the bounded-length service line description
// and the computed service time window.
//
// Both renderings are deterministic — the same reservation state always
// produces the same line and the same window, byte for byte, which is what
// keeps re-runs of a batch idempotent all the way through sync.
package schedule
