// Package automation ties the reservation pipeline together: it normalizes
// source batches, reconciles them against the record store, computes flags,
// renders service lines and windows, syncs work-order jobs, and archives a
// per-run report.
package automation
