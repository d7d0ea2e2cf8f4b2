package schedule_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/flags"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/schedule"
)

const baseName = "Turnover STR Next Guest Unknown"

func TestAssembleServiceLine_BaseOnly(t *testing.T) {
	line := schedule.AssembleServiceLine(baseName, "", flags.Flags{})
	assert.Equal(t, baseName, line)
}

func TestAssembleServiceLine_Order(t *testing.T) {
	line := schedule.AssembleServiceLine(baseName, "Extra towels", flags.Flags{LongTermGuest: true})
	assert.Equal(t, "Extra towels - LONG TERM GUEST DEPARTING - "+baseName, line)
}

func TestAssembleServiceLine_SameDayPrefix(t *testing.T) {
	line := schedule.AssembleServiceLine(baseName, "", flags.Flags{SameDayTurnover: true})
	assert.Equal(t, "SAME DAY "+baseName, line)
}

func TestAssembleServiceLine_OwnerBeatsLongTerm(t *testing.T) {
	// The detector never sets both, but the assembler picks owner arrival if
	// handed both anyway.
	line := schedule.AssembleServiceLine(baseName, "", flags.Flags{OwnerArriving: true, LongTermGuest: true})
	assert.Contains(t, line, "OWNER ARRIVING")
	assert.NotContains(t, line, "LONG TERM")
}

func TestAssembleServiceLine_TruncatesOnlyInstructions(t *testing.T) {
	instructions := strings.Repeat("very long instruction text ", 10)

	line := schedule.AssembleServiceLine(baseName, instructions, flags.Flags{LongTermGuest: true})

	assert.LessOrEqual(t, len(line), schedule.SoftLimit)
	assert.Contains(t, line, "...", "truncated instructions carry an ellipsis")
	assert.Contains(t, line, "LONG TERM GUEST DEPARTING", "flag label survives truncation")
	assert.True(t, strings.HasSuffix(line, baseName), "base name survives truncation")
}

func TestAssembleServiceLine_WordBoundaryCut(t *testing.T) {
	instructions := strings.Repeat("alpha bravo charlie delta ", 12)

	line := schedule.AssembleServiceLine(baseName, instructions, flags.Flags{})

	idx := strings.Index(line, "...")
	assert.Greater(t, idx, 0)
	// The character before the ellipsis ends a whole word, not a fragment.
	cutSegment := line[:idx]
	assert.False(t, strings.HasSuffix(cutSegment, " "))
	lastWord := cutSegment[strings.LastIndex(cutSegment, " ")+1:]
	assert.Contains(t, []string{"alpha", "bravo", "charlie", "delta"}, lastWord)
}

func TestAssembleServiceLine_ShortLineNotTruncated(t *testing.T) {
	line := schedule.AssembleServiceLine(baseName, "Gate code 4821", flags.Flags{})
	assert.Equal(t, "Gate code 4821 - "+baseName, line)
	assert.NotContains(t, line, "...")
}

func TestAssembleServiceLine_HardLimit(t *testing.T) {
	// A pathological base name alone exceeds the hard cap; the safety net
	// still bounds the result.
	huge := strings.Repeat("B", 400)
	line := schedule.AssembleServiceLine(huge, "", flags.Flags{})
	assert.LessOrEqual(t, len(line), schedule.HardLimit)
	assert.True(t, strings.HasSuffix(line, "..."))
}

func TestAssembleServiceLine_AllComponents(t *testing.T) {
	line := schedule.AssembleServiceLine(baseName, "Check the pool", flags.Flags{
		SameDayTurnover: true,
		OwnerArriving:   true,
	})
	assert.Equal(t, "Check the pool - OWNER ARRIVING - SAME DAY "+baseName, line)
}
