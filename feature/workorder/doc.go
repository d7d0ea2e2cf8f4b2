// Package workorder holds the ServiceJob shape, the port to the work-order
// platform (HousecallPro-shaped), and its HTTP client.
//
// The store is treated as a black-box record store with CRUD and a fixed job
// status enum. Retry of transient remote errors belongs to callers; the sync
// layer above is pure enough to be retried wholesale.
package workorder
