package reconcile

import (
	"context"
	"fmt"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
)

// Options controls apply behavior.
type Options struct {
	// DryRun prevents execution of any writes if true.
	DryRun bool

	// Confirmed indicates the caller has confirmed the writes. If false,
	// nothing executes regardless of DryRun.
	Confirmed bool
}

// Apply writes a plan's classification to the record store: upserts for New
// and Modified records plus any Unchanged records carrying recomputed flags
// (chunked to the store's batch limit), soft-delete status updates plus audit
// annotations for Removed ones.
//
// Writes happen only after the full plan for the scope exists, so a crash
// mid-plan never commits partial progress. Returns the number of records
// written.
func Apply(ctx context.Context, records store.RecordStore, result *Result, opts Options) (int, error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	written := 0

	upserts := make([]*models.Reservation, 0, len(result.New)+len(result.Modified)+len(result.FlagUpdates))
	upserts = append(upserts, result.New...)
	upserts = append(upserts, result.Modified...)
	upserts = append(upserts, result.FlagUpdates...)

	for _, chunk := range store.Chunk(upserts) {
		if err := records.Upsert(ctx, chunk); err != nil {
			return written, fmt.Errorf("reconcile: apply upserts: %w", err)
		}
		written += len(chunk)
	}

	// Removed records carrying a continuation annotation need the full row
	// written back; plain removals are a status update only.
	annotated := make(map[string]struct{}, len(result.Continuations))
	for _, c := range result.Continuations {
		annotated[c.OldUID] = struct{}{}
	}

	var annotatedRemovals []*models.Reservation
	for _, removed := range result.Removed {
		if _, ok := annotated[removed.UID]; ok {
			annotatedRemovals = append(annotatedRemovals, removed)
			continue
		}
		if err := records.MarkRemoved(ctx, removed.UID); err != nil {
			return written, fmt.Errorf("reconcile: apply removals: %w", err)
		}
		written++
	}

	for _, chunk := range store.Chunk(annotatedRemovals) {
		if err := records.Upsert(ctx, chunk); err != nil {
			return written, fmt.Errorf("reconcile: apply annotated removals: %w", err)
		}
		written += len(chunk)
	}

	return written, nil
}
