package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// InvalidInputError indicates identity could not be computed because a
// required component is missing.
type InvalidInputError struct {
	// Field names the missing component.
	Field string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("identity: missing required input %q", e.Field)
}

// Generate derives the stable composite unique identifier for a reservation.
// It is a pure function: the same inputs always yield the same uid.
//
// Format: {source}_{property}_{checkin}_{checkout}_{guest_lastname}, dates as
// YYYY-MM-DD. The guest surname is normalized before composition so formatting
// differences between imports do not produce spurious identity changes.
func Generate(source models.Source, propertyID string, checkin, checkout time.Time, guestLastName string) (string, error) {
	if source == "" {
		return "", &InvalidInputError{Field: "source"}
	}
	if propertyID == "" {
		return "", &InvalidInputError{Field: "property_id"}
	}
	if checkin.IsZero() {
		return "", &InvalidInputError{Field: "checkin"}
	}
	if checkout.IsZero() {
		return "", &InvalidInputError{Field: "checkout"}
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s",
		source,
		propertyID,
		models.DateOf(checkin).Format("2006-01-02"),
		models.DateOf(checkout).Format("2006-01-02"),
		NormalizeLastName(guestLastName),
	), nil
}

// NormalizeLastName trims and case-folds a guest surname and collapses inner
// whitespace, so "  De La Cruz " and "de la cruz" compose the same uid.
func NormalizeLastName(name string) string {
	folded := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(folded), "")
}

// LastNameOf extracts the surname component from a full guest name.
// Empty input yields an empty surname; single-word names are used as-is.
func LastNameOf(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
