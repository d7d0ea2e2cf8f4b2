package schedule

import (
	"fmt"
	"time"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
)

// ScheduleParseError indicates a malformed manual service-time override.
// Callers log it and fall back to the computed window; it is never silently
// ignored.
type ScheduleParseError struct {
	// Raw is the malformed override, verbatim.
	Raw string
}

func (e *ScheduleParseError) Error() string {
	return fmt.Sprintf("schedule: malformed custom service time %q, want HH:MM AM/PM", e.Raw)
}

// overrideLayout is the strict format for manual overrides ("02:30 PM").
const overrideLayout = "03:04 PM"

// Window is a computed service time window.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SameDate reports whether both windows fall on the same calendar date.
func (w Window) SameDate(other Window) bool {
	return models.SameDate(w.Start, other.Start)
}

// WindowSpec describes how to place a service window relative to checkout.
type WindowSpec struct {
	// StartOffset is added to the checkout time to get the window start.
	StartOffset time.Duration `json:"start_offset"`
	// Duration is the window length.
	Duration time.Duration `json:"duration"`
}

// Defaults maps checkout times to window specs, with a global fallback and a
// compressed same-day spec. On turnover days both a checkout clean and a
// check-in prep must fit before the next guest arrives, so the same-day
// window starts earlier and runs shorter.
type Defaults struct {
	// ByCheckout keys are checkout times in "15:04" form.
	ByCheckout map[string]WindowSpec `json:"by_checkout"`
	// Fallback applies when no checkout-time entry matches.
	Fallback WindowSpec `json:"fallback"`
	// SameDay applies whenever the turnover flag is set.
	SameDay WindowSpec `json:"same_day"`
}

// StandardDefaults is the global fallback table used when a property has no
// table of its own.
func StandardDefaults() Defaults {
	return Defaults{
		ByCheckout: map[string]WindowSpec{
			"10:00": {StartOffset: 30 * time.Minute, Duration: 4 * time.Hour},
			"11:00": {StartOffset: 15 * time.Minute, Duration: 4 * time.Hour},
		},
		Fallback: WindowSpec{StartOffset: 30 * time.Minute, Duration: 4 * time.Hour},
		SameDay:  WindowSpec{StartOffset: 0, Duration: 3 * time.Hour},
	}
}

// ComputeWindow derives the service window from the checkout time, the
// property's defaults table, and the same-day flag. A manual override in
// "HH:MM AM/PM" form takes precedence over every computed window and is
// parsed strictly: when it is malformed, the computed window is returned
// together with a *ScheduleParseError so the caller can report it.
func ComputeWindow(checkout time.Time, defaults Defaults, sameDay bool, customServiceTime string) (Window, error) {
	spec := defaults.specFor(checkout, sameDay)

	computed := Window{
		Start: checkout.Add(spec.StartOffset),
	}
	computed.End = computed.Start.Add(spec.Duration)

	if customServiceTime == "" {
		return computed, nil
	}

	parsed, err := time.Parse(overrideLayout, customServiceTime)
	if err != nil {
		return computed, &ScheduleParseError{Raw: customServiceTime}
	}

	day := models.DateOf(checkout)
	start := day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
	return Window{Start: start, End: start.Add(spec.Duration)}, nil
}

func (d Defaults) specFor(checkout time.Time, sameDay bool) WindowSpec {
	if sameDay {
		return d.SameDay
	}
	if spec, ok := d.ByCheckout[checkout.Format("15:04")]; ok {
		return spec
	}
	return d.Fallback
}
