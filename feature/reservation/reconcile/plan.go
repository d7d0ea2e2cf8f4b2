package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// DataIntegrityError indicates a batch contained the same uid twice. The
// engine refuses to silently pick one; the whole scope is aborted while other
// scopes proceed.
type DataIntegrityError struct {
	UID string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("reconcile: duplicate uid %q within a single batch", e.UID)
}

// Continuation links a newly created record to the removed record it replaced
// when the identity key changed for what is inferred to be the same stay.
type Continuation struct {
	// OldUID is the record marked Removed this pass.
	OldUID string `json:"old_uid"`
	// NewUID is the record that replaced it.
	NewUID string `json:"new_uid"`
	// Ambiguous is set when more than one removed record matched; the most
	// recent checkout won and the new record is flagged for manual review.
	Ambiguous bool `json:"ambiguous"`
}

// Summary provides aggregate counts for a reconciliation pass.
type Summary struct {
	// BatchSize is the number of incoming records considered.
	BatchSize int `json:"batch_size"`
	// InScope is the number of snapshot records covered by the scope.
	InScope int `json:"in_scope"`
	// New, Modified, Unchanged, Removed count each classification.
	New       int `json:"new"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
	// Skipped counts incoming records that fell outside the scope.
	Skipped int `json:"skipped"`
	// Continuations counts detected clone-mark-create pairs.
	Continuations int `json:"continuations"`
}

// Result is the classification output of one reconciliation pass. It is pure
// data: nothing is written until Apply runs, so an aborted run discards the
// result and leaves the previous state intact.
type Result struct {
	New       []*models.Reservation `json:"new"`
	Modified  []*models.Reservation `json:"modified"`
	Unchanged []*models.Reservation `json:"unchanged"`
	Removed   []*models.Reservation `json:"removed"`

	Continuations []Continuation `json:"continuations,omitempty"`
	Summary       Summary        `json:"summary"`

	// FlagUpdates are Unchanged records whose derived flags changed this pass.
	// Source fields did not move, but the stored row is stale until the new
	// flags are written back. Populated after flag computation, not by Plan;
	// entries alias records already present in Unchanged.
	FlagUpdates []*models.Reservation `json:"flag_updates,omitempty"`
}

// Records returns every classified record in one slice, New first.
func (r *Result) Records() []*models.Reservation {
	out := make([]*models.Reservation, 0, len(r.New)+len(r.Modified)+len(r.Unchanged)+len(r.Removed))
	out = append(out, r.New...)
	out = append(out, r.Modified...)
	out = append(out, r.Unchanged...)
	out = append(out, r.Removed...)
	return out
}

// PropertyIDs returns the distinct property ids touched by the pass, sorted.
func (r *Result) PropertyIDs() []string {
	set := make(map[string]struct{})
	for _, res := range r.Records() {
		set[res.PropertyID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveByProperty groups the pass's active (non-Removed) records by property,
// which is the sibling set the flag detector needs.
func (r *Result) ActiveByProperty() map[string][]*models.Reservation {
	grouped := make(map[string][]*models.Reservation)
	for _, res := range r.Records() {
		if res.Active() {
			grouped[res.PropertyID] = append(grouped[res.PropertyID], res)
		}
	}
	return grouped
}

// Plan diffs an incoming batch of canonical reservations against the current
// snapshot for one scope and classifies each record as New, Unchanged,
// Modified, or Removed. It is a pure function over its inputs: neither the
// batch nor the snapshot is mutated, and running it twice on identical inputs
// yields identical output.
//
// An empty batch with a non-empty scope marks every in-scope active record
// Removed. Callers must distinguish empty-due-to-fetch-failure from
// empty-due-to-no-bookings before calling Plan.
func Plan(batch []*models.Reservation, snapshot map[string]*models.Reservation, scope models.Scope) (*Result, error) {
	seen := make(map[string]struct{}, len(batch))
	for _, res := range batch {
		if _, dup := seen[res.UID]; dup {
			return nil, &DataIntegrityError{UID: res.UID}
		}
		seen[res.UID] = struct{}{}
	}

	// Partition the snapshot: records outside the scope are untouched
	// regardless of what the batch contains.
	inScope := make(map[string]*models.Reservation)
	for uid, res := range snapshot {
		if scope.Contains(res) {
			inScope[uid] = res
		}
	}

	result := &Result{Summary: Summary{BatchSize: len(batch), InScope: len(inScope)}}

	matched := make(map[string]struct{}, len(batch))
	for _, incoming := range batch {
		if !scope.Contains(incoming) {
			result.Summary.Skipped++
			continue
		}

		stored, found := inScope[incoming.UID]
		if !found {
			created := clone(incoming)
			created.Status = models.StatusNew
			result.New = append(result.New, created)
			continue
		}

		matched[incoming.UID] = struct{}{}
		if stored.FieldsEqual(incoming) {
			kept := clone(stored)
			kept.Status = models.StatusUnchanged
			result.Unchanged = append(result.Unchanged, kept)
			continue
		}

		// Non-key fields differ: update stored fields, preserve the uid and
		// every locally owned field (overrides, job linkage, audit trail).
		updated := clone(stored)
		updated.GuestName = incoming.GuestName
		updated.GuestPhone = incoming.GuestPhone
		updated.EntryType = incoming.EntryType
		updated.CustomInstructions = incoming.CustomInstructions
		updated.NextGuestDate = incoming.NextGuestDate
		updated.Checkin = incoming.Checkin
		updated.Checkout = incoming.Checkout
		updated.Status = models.StatusModified
		result.Modified = append(result.Modified, updated)
	}

	// In-scope records absent from the batch become Removed. Soft delete:
	// status update only, the record is retained for audit.
	for _, uid := range sortedKeys(inScope) {
		if _, ok := matched[uid]; ok {
			continue
		}
		stored := inScope[uid]
		if stored.Status == models.StatusRemoved {
			continue
		}
		removed := clone(stored)
		removed.Status = models.StatusRemoved
		result.Removed = append(result.Removed, removed)
	}

	linkContinuations(result)

	sortByUID(result.New)
	sortByUID(result.Modified)
	sortByUID(result.Unchanged)
	sortByUID(result.Removed)

	result.Summary.New = len(result.New)
	result.Summary.Modified = len(result.Modified)
	result.Summary.Unchanged = len(result.Unchanged)
	result.Summary.Removed = len(result.Removed)
	result.Summary.Continuations = len(result.Continuations)

	return result, nil
}

// linkContinuations detects the clone-mark-create pattern: a removed uid and a
// new uid in the same pass sharing a property with overlapping or adjacent
// date ranges are treated as the same logical stay. Both records stay
// physically distinct; the pair is annotated for audit linkage.
//
// When multiple removed records match one new record, the most recent by
// checkout wins and the pair is flagged ambiguous for manual review.
func linkContinuations(result *Result) {
	if len(result.New) == 0 || len(result.Removed) == 0 {
		return
	}

	consumed := make(map[string]struct{})
	for _, created := range result.New {
		var candidates []*models.Reservation
		for _, removed := range result.Removed {
			if _, taken := consumed[removed.UID]; taken {
				continue
			}
			if removed.PropertyID != created.PropertyID {
				continue
			}
			if overlapsOrAdjacent(removed, created) {
				candidates = append(candidates, removed)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Checkout.After(candidates[j].Checkout)
		})
		best := candidates[0]
		consumed[best.UID] = struct{}{}

		ambiguous := len(candidates) > 1
		created.ContinuationOf = best.UID
		created.NeedsReview = created.NeedsReview || ambiguous
		best.ContinuedBy = created.UID
		// The replacement inherits the job so sync cancels nothing that is
		// still needed.
		if created.JobID == "" {
			created.JobID = best.JobID
		}

		result.Continuations = append(result.Continuations, Continuation{
			OldUID:    best.UID,
			NewUID:    created.UID,
			Ambiguous: ambiguous,
		})
	}
}

// overlapsOrAdjacent reports whether two stays at the same property overlap or
// sit within one day of each other.
func overlapsOrAdjacent(a, b *models.Reservation) bool {
	const slack = 24 * time.Hour
	aStart, aEnd := models.DateOf(a.Checkin), models.DateOf(a.Checkout)
	bStart, bEnd := models.DateOf(b.Checkin), models.DateOf(b.Checkout)
	return !aStart.After(bEnd.Add(slack)) && !bStart.After(aEnd.Add(slack))
}

func clone(r *models.Reservation) *models.Reservation {
	c := *r
	if r.NextGuestDate != nil {
		d := *r.NextGuestDate
		c.NextGuestDate = &d
	}
	return &c
}

func sortByUID(records []*models.Reservation) {
	sort.Slice(records, func(i, j int) bool { return records[i].UID < records[j].UID })
}

func sortedKeys(m map[string]*models.Reservation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
