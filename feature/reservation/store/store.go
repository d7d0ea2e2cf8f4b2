package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// ErrNotFound indicates a uid lookup matched no record.
var ErrNotFound = errors.New("store: record not found")

// BatchLimit is the record store's batch upsert cap. The Airtable-shaped API
// accepts at most 10 records per write call, so callers chunk around it.
const BatchLimit = 10

// RecordStore is the port the core uses to read and write reservation
// records. Implementations own rate limiting and transient-error retry; the
// core's functions are pure enough to be retried wholesale.
type RecordStore interface {
	// List returns every reservation in the given scope, Removed ones
	// included (they are retained for audit).
	List(ctx context.Context, scope models.Scope) ([]*models.Reservation, error)

	// Get returns one reservation by uid, or ErrNotFound.
	Get(ctx context.Context, uid string) (*models.Reservation, error)

	// Upsert creates or replaces records by uid. Len(records) must not
	// exceed BatchLimit.
	Upsert(ctx context.Context, records []*models.Reservation) error

	// MarkRemoved soft-deletes a record by uid: status update only, the
	// record is never physically deleted.
	MarkRemoved(ctx context.Context, uid string) error
}

// PropertyStore resolves property entities for normalization and scheduling.
type PropertyStore interface {
	// Properties returns all known properties.
	Properties(ctx context.Context) ([]*models.Property, error)
}

// Chunk splits records into BatchLimit-sized groups for upserting.
func Chunk(records []*models.Reservation) [][]*models.Reservation {
	if len(records) == 0 {
		return nil
	}
	chunks := make([][]*models.Reservation, 0, (len(records)+BatchLimit-1)/BatchLimit)
	for start := 0; start < len(records); start += BatchLimit {
		end := start + BatchLimit
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// SnapshotOf indexes a listing by uid, the shape the reconciliation engine
// consumes. Duplicate uids in a listing violate the store invariant.
func SnapshotOf(records []*models.Reservation) (map[string]*models.Reservation, error) {
	snapshot := make(map[string]*models.Reservation, len(records))
	for _, r := range records {
		if _, dup := snapshot[r.UID]; dup {
			return nil, fmt.Errorf("store: snapshot contains uid %q twice", r.UID)
		}
		snapshot[r.UID] = r
	}
	return snapshot, nil
}
