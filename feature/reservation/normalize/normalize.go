package normalize

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/core/utils"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/identity"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// PropertyResolver resolves a source-provided property name to a property ID
// by exact name match.
type PropertyResolver interface {
	ResolveProperty(name string) (id string, ok bool)
}

// ResolverFunc adapts a function to the PropertyResolver interface.
type ResolverFunc func(name string) (string, bool)

// ResolveProperty calls f.
func (f ResolverFunc) ResolveProperty(name string) (string, bool) {
	return f(name)
}

// Row is one pre-parsed key-value record from a source feed. Values are loose
// typed because rows arrive both from CSV parsing (strings) and from JSON
// request bodies (arbitrary scalars).
type Row map[string]any

// Func maps one raw source row into the canonical reservation shape.
type Func func(row Row) (*models.Reservation, error)

// Default times-of-day applied when a source provides date-only values.
const (
	defaultCheckinHour  = 16
	defaultCheckoutHour = 11
)

// Known date layouts per source. Order matters: the first match wins.
var (
	itripDateLayouts  = []string{"2006-01-02", "01/02/2006", "1/2/2006", "2006-01-02 15:04:05"}
	evolveDateLayouts = []string{"01/02/2006", "1/2/2006", "Jan 2, 2006", "2006-01-02"}
	icsDateLayouts    = []string{"20060102", "20060102T150405Z", "20060102T150405", "2006-01-02"}
)

// Normalizer maps raw source rows into canonical reservations.
type Normalizer struct {
	props  PropertyResolver
	logger *zap.Logger
}

// New creates a normalizer backed by the given property resolver.
func New(props PropertyResolver, logger *zap.Logger) *Normalizer {
	return &Normalizer{props: props, logger: logger}
}

// ForSource returns the mapping function for the given feed.
func (n *Normalizer) ForSource(src models.Source) (Func, bool) {
	switch src {
	case models.SourceITrip:
		return n.ITrip, true
	case models.SourceEvolve:
		return n.Evolve, true
	case models.SourceICS:
		return n.ICS, true
	default:
		return nil, false
	}
}

// ITrip maps one iTrip CSV row. iTrip provides an authoritative next-booking
// lookahead column, which is carried through as NextGuestDate.
func (n *Normalizer) ITrip(row Row) (*models.Reservation, error) {
	propertyID, err := n.resolveProperty(models.SourceITrip, str(row, "Property Name"))
	if err != nil {
		return nil, err
	}

	checkin, err := parseDate(models.SourceITrip, "Checkin", str(row, "Checkin"), itripDateLayouts, defaultCheckinHour)
	if err != nil {
		return nil, err
	}
	checkout, err := parseDate(models.SourceITrip, "Checkout", str(row, "Checkout"), itripDateLayouts, defaultCheckoutHour)
	if err != nil {
		return nil, err
	}

	res := &models.Reservation{
		Source:             models.SourceITrip,
		PropertyID:         propertyID,
		Checkin:            checkin,
		Checkout:           checkout,
		GuestName:          strings.TrimSpace(str(row, "Tenant Name")),
		GuestPhone:         strings.TrimSpace(str(row, "Tenant Phone")),
		EntryType:          models.EntryReservation,
		CustomInstructions: Instructions(str(row, "Contractor Info")),
	}

	// Optional lookahead column; a blank value simply means no next booking.
	if raw := strings.TrimSpace(str(row, "Next Booking")); raw != "" {
		next, err := parseDate(models.SourceITrip, "Next Booking", raw, itripDateLayouts, defaultCheckinHour)
		if err != nil {
			// Bad lookahead data does not invalidate the reservation itself.
			n.logger.Warn("dropping unparsable next booking date",
				zap.String("raw", raw), zap.String("property", propertyID))
		} else {
			d := models.DateOf(next)
			res.NextGuestDate = &d
		}
	}

	return n.finish(res)
}

// Evolve maps one Evolve CSV/scrape row. Evolve marks owner holds with a
// Reservation Type column and cancellations with a Status column.
func (n *Normalizer) Evolve(row Row) (*models.Reservation, error) {
	if status := strings.ToLower(strings.TrimSpace(str(row, "Status"))); status == "cancelled" || status == "canceled" {
		return nil, ErrCanceled
	}

	propertyID, err := n.resolveProperty(models.SourceEvolve, str(row, "Property Name"))
	if err != nil {
		return nil, err
	}

	checkin, err := parseDate(models.SourceEvolve, "Check-In", str(row, "Check-In"), evolveDateLayouts, defaultCheckinHour)
	if err != nil {
		return nil, err
	}
	checkout, err := parseDate(models.SourceEvolve, "Check-Out", str(row, "Check-Out"), evolveDateLayouts, defaultCheckoutHour)
	if err != nil {
		return nil, err
	}

	entry := models.EntryReservation
	if t := strings.ToLower(str(row, "Reservation Type")); strings.Contains(t, "owner") || strings.Contains(t, "hold") {
		entry = models.EntryBlock
	}

	res := &models.Reservation{
		Source:     models.SourceEvolve,
		PropertyID: propertyID,
		Checkin:    checkin,
		Checkout:   checkout,
		GuestName:  strings.TrimSpace(str(row, "Guest Name")),
		GuestPhone: strings.TrimSpace(str(row, "Phone")),
		EntryType:  entry,
	}

	return n.finish(res)
}

// ICS maps one VEVENT row. ICS feeds are configured per property, so the feed
// layer injects the property name under the "Property Name" key.
func (n *Normalizer) ICS(row Row) (*models.Reservation, error) {
	propertyID, err := n.resolveProperty(models.SourceICS, str(row, "Property Name"))
	if err != nil {
		return nil, err
	}

	checkin, err := parseDate(models.SourceICS, "DTSTART", str(row, "DTSTART"), icsDateLayouts, defaultCheckinHour)
	if err != nil {
		return nil, err
	}
	checkout, err := parseDate(models.SourceICS, "DTEND", str(row, "DTEND"), icsDateLayouts, defaultCheckoutHour)
	if err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(str(row, "SUMMARY"))
	if strings.EqualFold(summary, "cancelled") {
		return nil, ErrCanceled
	}

	entry := models.EntryReservation
	lower := strings.ToLower(summary)
	if strings.Contains(lower, "block") || strings.Contains(lower, "owner") || strings.Contains(lower, "maintenance") || strings.Contains(lower, "not available") {
		entry = models.EntryBlock
	}

	res := &models.Reservation{
		Source:     models.SourceICS,
		PropertyID: propertyID,
		Checkin:    checkin,
		Checkout:   checkout,
		GuestName:  guestFromSummary(summary, entry),
		EntryType:  entry,
	}

	return n.finish(res)
}

// finish validates invariants common to all sources and assigns the uid.
func (n *Normalizer) finish(res *models.Reservation) (*models.Reservation, error) {
	if res.Checkout.Before(res.Checkin) {
		return nil, &NormalizationError{
			Source: res.Source,
			Field:  "checkout",
			Reason: "checkout precedes checkin",
		}
	}

	uid, err := identity.Generate(res.Source, res.PropertyID, res.Checkin, res.Checkout, identity.LastNameOf(res.GuestName))
	if err != nil {
		return nil, err
	}
	res.UID = uid
	return res, nil
}

func (n *Normalizer) resolveProperty(src models.Source, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &NormalizationError{Source: src, Field: "property_id", Reason: "property name missing"}
	}
	id, ok := n.props.ResolveProperty(name)
	if !ok {
		return "", &NormalizationError{Source: src, Field: "property_id", Reason: "no property named " + name}
	}
	return id, nil
}

// Instructions sanitizes custom instruction text: invalid UTF-8 is repaired,
// surrounding whitespace dropped, and the result capped at 200 characters.
// Empty-after-trim is treated as absent.
func Instructions(raw string) string {
	s := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
	// Cap by rune, not byte: a byte slice could split a multi-byte character
	// and undo the repair above.
	if r := []rune(s); len(r) > 200 {
		s = strings.TrimSpace(string(r[:200]))
	}
	return s
}

// parseDate tries each known layout in order. Date-only layouts get the
// source's default time-of-day attached.
func parseDate(src models.Source, field, raw string, layouts []string, defaultHour int) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &NormalizationError{Source: src, Field: field, Reason: "date missing"}
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Hour() == 0 && t.Minute() == 0 && !strings.Contains(layout, "15") {
			t = t.Add(time.Duration(defaultHour) * time.Hour)
		}
		return t.UTC(), nil
	}
	return time.Time{}, &DateParseError{Source: src, Field: field, Raw: raw}
}

// guestFromSummary extracts a guest name from an ICS SUMMARY line like
// "Reserved - Jane Smith". Blocks have no guest.
func guestFromSummary(summary string, entry models.EntryType) string {
	if entry == models.EntryBlock {
		return ""
	}
	if idx := strings.LastIndex(summary, " - "); idx >= 0 {
		return strings.TrimSpace(summary[idx+3:])
	}
	if strings.EqualFold(summary, "reserved") {
		return ""
	}
	return summary
}

// str reads a loose-typed row value as a string.
func str(row Row, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	return utils.ToString(v)
}
