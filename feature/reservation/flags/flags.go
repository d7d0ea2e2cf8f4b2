package flags

import (
	"time"

	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// LongTermNights is the minimum stay length, in nights, that marks a
// long-term guest.
const LongTermNights = 14

// ownerArrivalWindow bounds how soon after checkout a Block entry counts as
// an owner arrival.
const ownerArrivalWindow = 24 * time.Hour

// Flags is the computed flag set for one reservation.
type Flags struct {
	SameDayTurnover bool       `json:"same_day_turnover"`
	LongTermGuest   bool       `json:"long_term_guest"`
	OwnerArriving   bool       `json:"owner_arriving"`
	NextGuestDate   *time.Time `json:"next_guest_date,omitempty"`
}

// Detector computes turnover and arrival flags from a reservation's sibling
// set — the active records at the same property.
type Detector struct {
	logger *zap.Logger
}

// NewDetector creates a flag detector.
func NewDetector(logger *zap.Logger) *Detector {
	return &Detector{logger: logger}
}

// Compute derives the flag set for res given all active records at the same
// property. Invariants:
//
//   - same_day_turnover: some other active entry checks in on res's checkout
//     date, or checks out on res's checkin date
//   - owner_arriving: an active Block starts within [checkout, checkout+1 day]
//   - long_term_guest: stay of 14+ nights AND owner is not arriving — owner
//     arrival takes precedence and suppresses the long-term flag
func (d *Detector) Compute(res *models.Reservation, siblings []*models.Reservation) Flags {
	var f Flags

	for _, sib := range siblings {
		if sib.UID == res.UID || !sib.Active() {
			continue
		}
		if sib.PropertyID != res.PropertyID {
			continue
		}

		// Both sides of a turnover carry the flag: the departing stay whose
		// checkout day someone arrives on, and the arriving stay itself.
		if models.SameDate(sib.Checkin, res.Checkout) || models.SameDate(sib.Checkout, res.Checkin) {
			f.SameDayTurnover = true
		}

		if sib.EntryType == models.EntryBlock && withinArrivalWindow(res.Checkout, sib.Checkin) {
			f.OwnerArriving = true
		}
	}

	if !f.OwnerArriving && res.Nights() >= LongTermNights {
		f.LongTermGuest = true
	}

	f.NextGuestDate = d.nextGuestDate(res, siblings)

	return f
}

// Equal reports whether two flag sets agree. Next-guest dates compare by
// calendar date.
func (f Flags) Equal(o Flags) bool {
	if f.SameDayTurnover != o.SameDayTurnover ||
		f.LongTermGuest != o.LongTermGuest ||
		f.OwnerArriving != o.OwnerArriving {
		return false
	}
	if f.NextGuestDate == nil || o.NextGuestDate == nil {
		return f.NextGuestDate == o.NextGuestDate
	}
	return models.SameDate(*f.NextGuestDate, *o.NextGuestDate)
}

// Apply writes the computed flags onto the reservation.
func (f Flags) Apply(res *models.Reservation) {
	res.SameDayTurnover = f.SameDayTurnover
	res.LongTermGuest = f.LongTermGuest
	res.OwnerArriving = f.OwnerArriving
	res.NextGuestDate = f.NextGuestDate
}

// nextGuestDate prefers the source-provided lookahead value when present
// (iTrip carries one); otherwise it is the earliest sibling check-in on or
// after this reservation's checkout. When both exist and disagree the source
// wins, and the discrepancy is logged at warn level rather than raised —
// it usually signals a data-quality problem worth an operator's look.
func (d *Detector) nextGuestDate(res *models.Reservation, siblings []*models.Reservation) *time.Time {
	var computed *time.Time
	for _, sib := range siblings {
		if sib.UID == res.UID || !sib.Active() || sib.PropertyID != res.PropertyID {
			continue
		}
		if sib.EntryType != models.EntryReservation {
			continue
		}
		ci := models.DateOf(sib.Checkin)
		if ci.Before(models.DateOf(res.Checkout)) {
			continue
		}
		if computed == nil || ci.Before(*computed) {
			next := ci
			computed = &next
		}
	}

	if res.NextGuestDate == nil {
		return computed
	}

	source := models.DateOf(*res.NextGuestDate)
	if computed != nil && !source.Equal(*computed) {
		d.logger.Warn("next guest date disagreement, source value wins",
			zap.String("uid", res.UID),
			zap.Time("source", source),
			zap.Time("computed", *computed),
		)
	}
	return &source
}

func withinArrivalWindow(checkout, blockStart time.Time) bool {
	co := models.DateOf(checkout)
	bs := models.DateOf(blockStart)
	return !bs.Before(co) && !bs.After(co.Add(ownerArrivalWindow))
}
