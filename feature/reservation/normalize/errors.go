package normalize

import (
	"errors"
	"fmt"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// ErrCanceled marks a row the source itself flags as canceled. Callers drop
// the row from the batch so the reconciliation pass classifies the stored
// record as Removed.
var ErrCanceled = errors.New("normalize: record canceled at source")

// NormalizationError indicates a required source field is missing or
// unresolvable. It is record-level: callers log, collect, and continue with
// the rest of the batch.
type NormalizationError struct {
	// Source is the feed the record came from.
	Source models.Source
	// Field is the canonical field that could not be populated.
	Field string
	// Reason explains what was wrong with the raw value.
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: field %q: %s", e.Source, e.Field, e.Reason)
}

// DateParseError indicates a date field did not match any known format for
// its source. The offending raw string is preserved for diagnostics.
type DateParseError struct {
	// Source is the feed the record came from.
	Source models.Source
	// Field is the raw column that failed to parse.
	Field string
	// Raw is the unparsable value, verbatim.
	Raw string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("normalize %s: field %q: unparsable date %q", e.Source, e.Field, e.Raw)
}
