// Package models defines the canonical reservation data shapes shared by
// every feature.
//
// The Reservation struct is the single canonical form all source feeds
// normalize into; raw external shapes never leak past the normalize package.
// The UID field is the immutable composite identity key that makes repeated
// imports idempotent.
//
// Scope bounds a reconciliation pass to one source and the set of properties
// the batch covers, so that sources never clobber each other's records.
package models
