package models

import (
	"time"
)

// Source identifies the external feed a reservation record came from.
type Source string

const (
	// SourceITrip is the iTrip email CSV feed.
	SourceITrip Source = "itrip"
	// SourceEvolve is the Evolve partner portal CSV/scrape feed.
	SourceEvolve Source = "evolve"
	// SourceICS is a generic ICS calendar feed.
	SourceICS Source = "ics"
)

// IsValid reports whether the source is one of the known feeds.
func (s Source) IsValid() bool {
	switch s {
	case SourceITrip, SourceEvolve, SourceICS:
		return true
	default:
		return false
	}
}

// EntryType distinguishes paying-guest reservations from owner/maintenance blocks.
type EntryType string

const (
	// EntryReservation is a paying guest stay.
	EntryReservation EntryType = "Reservation"
	// EntryBlock is an owner stay or maintenance hold, not a paying guest.
	EntryBlock EntryType = "Block"
)

// Status is the lifecycle state assigned on each reconciliation pass.
// It is classification output, not persisted guest data.
type Status string

const (
	StatusNew       Status = "New"
	StatusModified  Status = "Modified"
	StatusUnchanged Status = "Unchanged"
	StatusRemoved   Status = "Removed"
)

// Reservation is the canonical reservation shape every source normalizes into.
// UID is the immutable identity key; changing any of its components produces a
// new record (clone-mark-create), never an in-place edit.
type Reservation struct {
	// UID is the composite identity key:
	// {source}_{property}_{checkin}_{checkout}_{guest_lastname}.
	UID string `gorm:"column:uid;primaryKey;type:varchar(255)" json:"uid"`

	// Source is the feed this record was ingested from.
	Source Source `gorm:"column:source;type:varchar(20);index" json:"source"`

	// PropertyID references the property entity, resolved by exact name match.
	PropertyID string `gorm:"column:property_id;type:varchar(64);index" json:"property_id"`

	// Checkin and Checkout are calendar dates; time-of-day defaults per source.
	Checkin  time.Time `gorm:"column:checkin" json:"checkin"`
	Checkout time.Time `gorm:"column:checkout" json:"checkout"`

	// GuestName and GuestPhone are optional source data.
	GuestName  string `gorm:"column:guest_name;type:varchar(255)" json:"guest_name,omitempty"`
	GuestPhone string `gorm:"column:guest_phone;type:varchar(50)" json:"guest_phone,omitempty"`

	// EntryType marks owner/maintenance blocks vs paying guests.
	EntryType EntryType `gorm:"column:entry_type;type:varchar(20)" json:"entry_type"`

	// CustomInstructions is optional free text, capped at 200 characters
	// after processing.
	CustomInstructions string `gorm:"column:custom_instructions;type:varchar(200)" json:"custom_instructions,omitempty"`

	// CustomServiceTime is an optional manual schedule override in
	// "HH:MM AM/PM" format. It takes precedence over computed windows.
	CustomServiceTime string `gorm:"column:custom_service_time;type:varchar(20)" json:"custom_service_time,omitempty"`

	// Status is assigned each reconciliation pass.
	Status Status `gorm:"column:status;type:varchar(20);index" json:"status"`

	// Computed flags; never source data.
	SameDayTurnover bool `gorm:"column:same_day_turnover" json:"same_day_turnover"`
	LongTermGuest   bool `gorm:"column:long_term_guest" json:"long_term_guest"`
	OwnerArriving   bool `gorm:"column:owner_arriving" json:"owner_arriving"`

	// NextGuestDate is source-provided when the feed carries authoritative
	// lookahead data (iTrip), otherwise computed from sibling reservations.
	NextGuestDate *time.Time `gorm:"column:next_guest_date" json:"next_guest_date,omitempty"`

	// ContinuationOf links a new record to the removed record it replaced
	// when the identity key changed for the same logical stay.
	ContinuationOf string `gorm:"column:continuation_of;type:varchar(255)" json:"continuation_of,omitempty"`

	// ContinuedBy is the audit annotation on the removed side of a
	// clone-mark-create pair.
	ContinuedBy string `gorm:"column:continued_by;type:varchar(255)" json:"continued_by,omitempty"`

	// NeedsReview marks records whose continuation match was ambiguous and
	// requires manual resolution.
	NeedsReview bool `gorm:"column:needs_review" json:"needs_review"`

	// JobID is the work-order store job backing this reservation, if created.
	JobID string `gorm:"column:job_id;type:varchar(64)" json:"job_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Reservation) TableName() string {
	return "reservations"
}

// Active reports whether the reservation participates in flag computation and
// sync. Removed records are retained for audit but are not active.
func (r *Reservation) Active() bool {
	return r.Status != StatusRemoved
}

// Nights returns the stay length in whole nights.
func (r *Reservation) Nights() int {
	return int(DateOf(r.Checkout).Sub(DateOf(r.Checkin)).Hours() / 24)
}

// FieldsEqual compares the non-key fields that sources are authoritative for.
// Computed flags and lifecycle state are excluded: they are derived each pass.
func (r *Reservation) FieldsEqual(other *Reservation) bool {
	if other == nil {
		return false
	}
	return r.GuestName == other.GuestName &&
		r.GuestPhone == other.GuestPhone &&
		r.EntryType == other.EntryType &&
		r.CustomInstructions == other.CustomInstructions &&
		r.Checkin.Equal(other.Checkin) &&
		r.Checkout.Equal(other.Checkout) &&
		equalDatePtr(r.NextGuestDate, other.NextGuestDate)
}

func equalDatePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return SameDate(*a, *b)
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// Scope is the (source, property-set) boundary within which a reconciliation
// pass is authoritative for presence and absence. Records outside the scope
// are untouched regardless of batch contents.
type Scope struct {
	Source      Source   `json:"source"`
	PropertyIDs []string `json:"property_ids"`
}

// Contains reports whether the reservation falls inside this scope.
// An empty Source matches every source; that form is used for cross-source
// sibling lookups, never for reconciliation passes.
func (s Scope) Contains(r *Reservation) bool {
	if s.Source != "" && r.Source != s.Source {
		return false
	}
	for _, id := range s.PropertyIDs {
		if id == r.PropertyID {
			return true
		}
	}
	return false
}

// Property is the external property entity reservations reference.
// Properties are looked up by exact name match during normalization.
type Property struct {
	ID string `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`

	// Name must match the property name as it appears in source feeds.
	Name string `gorm:"column:name;type:varchar(255);uniqueIndex" json:"name"`

	// ServiceName is the base service line for this property,
	// e.g. "Turnover STR Next Guest Unknown".
	ServiceName string `gorm:"column:service_name;type:varchar(100)" json:"service_name"`

	// CheckoutTime is the property's standard checkout time ("15:04" format),
	// used to select the default service window.
	CheckoutTime string `gorm:"column:checkout_time;type:varchar(10)" json:"checkout_time"`

	// CustomerID and AddressID identify the property in the work-order store.
	CustomerID string `gorm:"column:customer_id;type:varchar(64)" json:"customer_id"`
	AddressID  string `gorm:"column:address_id;type:varchar(64)" json:"address_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Property) TableName() string {
	return "properties"
}
