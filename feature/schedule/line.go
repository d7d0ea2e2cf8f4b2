package schedule

import (
	"strings"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/flags"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
)

// Service line length limits. SoftLimit is the operational target; HardLimit
// is the external work-order field cap and is never exceeded.
const (
	SoftLimit = 200
	HardLimit = 255
)

// Flag labels are mutually exclusive: owner arrival suppresses the long-term
// flag upstream in the detector.
const (
	labelOwnerArriving = "OWNER ARRIVING"
	labelLongTerm      = "LONG TERM GUEST DEPARTING"
	prefixSameDay      = "SAME DAY"
)

const componentJoiner = " - "

// AssembleServiceLine deterministically composes the human-readable service
// line from custom instructions, computed flags, and the property's base
// service name. Construction order is fixed: instructions, then the arrival
// flag label, then the base name (itself prefixed "SAME DAY" on turnover
// days). Non-empty components are joined with " - ".
//
// If the result exceeds SoftLimit, only the instructions component is
// truncated — at the nearest word boundary that fits, with "..." appended.
// Flag labels and the base name are semantically required for field
// operations and are never truncated. A pathological base name that still
// overruns HardLimit is cut at 252 characters with "..." as a last resort.
func AssembleServiceLine(baseServiceName, customInstructions string, f flags.Flags) string {
	instructions := normalize.Instructions(customInstructions)

	var flagLabel string
	switch {
	case f.OwnerArriving:
		flagLabel = labelOwnerArriving
	case f.LongTermGuest:
		flagLabel = labelLongTerm
	}

	base := strings.TrimSpace(baseServiceName)
	if f.SameDayTurnover && base != "" {
		base = prefixSameDay + " " + base
	} else if f.SameDayTurnover {
		base = prefixSameDay
	}

	line := joinComponents(instructions, flagLabel, base)
	if len(line) > SoftLimit && instructions != "" {
		fixed := joinComponents("", flagLabel, base)
		budget := SoftLimit - len(fixed)
		if fixed != "" {
			budget -= len(componentJoiner)
		}
		instructions = truncateAtWord(instructions, budget)
		line = joinComponents(instructions, flagLabel, base)
	}

	// Safety net only: not expected in normal operation.
	if len(line) > HardLimit {
		line = line[:HardLimit-3] + "..."
	}

	return line
}

func joinComponents(components ...string) string {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, componentJoiner)
}

// truncateAtWord shortens s so that the result, ellipsis included, fits in
// budget. The cut lands on the nearest word boundary at or below the budget;
// if no boundary fits, the cut is mid-word. A budget too small for any
// content drops the component entirely.
func truncateAtWord(s string, budget int) string {
	const ellipsis = "..."
	if budget <= len(ellipsis) {
		return ""
	}
	max := budget - len(ellipsis)
	if len(s) <= max {
		return s + ellipsis
	}
	cut := strings.LastIndex(s[:max+1], " ")
	if cut <= 0 {
		cut = max
	}
	return strings.TrimRight(s[:cut], " ") + ellipsis
}
