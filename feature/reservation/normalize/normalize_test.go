package normalize_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
)

var testResolver = normalize.ResolverFunc(func(name string) (string, bool) {
	if name == "Desert Rose Villa" {
		return "prop42", true
	}
	return "", false
})

func newNormalizer() *normalize.Normalizer {
	return normalize.New(testResolver, zap.NewNop())
}

func TestITrip(t *testing.T) {
	n := newNormalizer()

	res, err := n.ITrip(normalize.Row{
		"Property Name":   "Desert Rose Villa",
		"Checkin":         "2025-06-01",
		"Checkout":        "2025-06-05",
		"Tenant Name":     "Jane Smith",
		"Tenant Phone":    "555-0100",
		"Next Booking":    "2025-06-05",
		"Contractor Info": "  Gate code 4821  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "itrip_prop42_2025-06-01_2025-06-05_smith", res.UID)
	assert.Equal(t, models.SourceITrip, res.Source)
	assert.Equal(t, "prop42", res.PropertyID)
	assert.Equal(t, models.EntryReservation, res.EntryType)
	assert.Equal(t, "Jane Smith", res.GuestName)
	assert.Equal(t, "Gate code 4821", res.CustomInstructions)
	require.NotNil(t, res.NextGuestDate)
	assert.Equal(t, "2025-06-05", res.NextGuestDate.Format("2006-01-02"))

	// Date-only values get the default times of day.
	assert.Equal(t, 16, res.Checkin.Hour())
	assert.Equal(t, 11, res.Checkout.Hour())
}

func TestITrip_RoundTripStable(t *testing.T) {
	n := newNormalizer()
	row := normalize.Row{
		"Property Name": "Desert Rose Villa",
		"Checkin":       "06/01/2025",
		"Checkout":      "06/05/2025",
		"Tenant Name":   "jane SMITH",
	}

	first, err := n.ITrip(row)
	require.NoError(t, err)
	second, err := n.ITrip(row)
	require.NoError(t, err)

	assert.Equal(t, first.UID, second.UID)
	assert.True(t, first.FieldsEqual(second))
}

func TestITrip_BadNextBookingDropped(t *testing.T) {
	n := newNormalizer()

	res, err := n.ITrip(normalize.Row{
		"Property Name": "Desert Rose Villa",
		"Checkin":       "2025-06-01",
		"Checkout":      "2025-06-05",
		"Next Booking":  "not a date",
	})
	require.NoError(t, err)
	assert.Nil(t, res.NextGuestDate)
}

func TestITrip_DateParseError(t *testing.T) {
	n := newNormalizer()

	_, err := n.ITrip(normalize.Row{
		"Property Name": "Desert Rose Villa",
		"Checkin":       "June the first",
		"Checkout":      "2025-06-05",
	})

	var dateErr *normalize.DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "Checkin", dateErr.Field)
	assert.Equal(t, "June the first", dateErr.Raw)
}

func TestITrip_UnknownProperty(t *testing.T) {
	n := newNormalizer()

	_, err := n.ITrip(normalize.Row{
		"Property Name": "No Such Villa",
		"Checkin":       "2025-06-01",
		"Checkout":      "2025-06-05",
	})

	var normErr *normalize.NormalizationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, "property_id", normErr.Field)
}

func TestITrip_CheckoutBeforeCheckin(t *testing.T) {
	n := newNormalizer()

	_, err := n.ITrip(normalize.Row{
		"Property Name": "Desert Rose Villa",
		"Checkin":       "2025-06-05",
		"Checkout":      "2025-06-01",
	})

	var normErr *normalize.NormalizationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, "checkout", normErr.Field)
}

func TestEvolve(t *testing.T) {
	n := newNormalizer()

	res, err := n.Evolve(normalize.Row{
		"Property Name": "Desert Rose Villa",
		"Check-In":      "06/10/2025",
		"Check-Out":     "06/14/2025",
		"Guest Name":    "Bob Jones",
		"Status":        "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "evolve_prop42_2025-06-10_2025-06-14_jones", res.UID)
	assert.Equal(t, models.EntryReservation, res.EntryType)
}

func TestEvolve_Canceled(t *testing.T) {
	n := newNormalizer()

	for _, status := range []string{"Cancelled", "canceled"} {
		_, err := n.Evolve(normalize.Row{
			"Property Name": "Desert Rose Villa",
			"Check-In":      "06/10/2025",
			"Check-Out":     "06/14/2025",
			"Status":        status,
		})
		assert.ErrorIs(t, err, normalize.ErrCanceled, status)
	}
}

func TestEvolve_OwnerHoldIsBlock(t *testing.T) {
	n := newNormalizer()

	res, err := n.Evolve(normalize.Row{
		"Property Name":    "Desert Rose Villa",
		"Check-In":         "06/10/2025",
		"Check-Out":        "06/14/2025",
		"Reservation Type": "Owner Hold",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EntryBlock, res.EntryType)
}

func TestICS(t *testing.T) {
	n := newNormalizer()

	res, err := n.ICS(normalize.Row{
		"Property Name": "Desert Rose Villa",
		"DTSTART":       "20250701",
		"DTEND":         "20250704",
		"SUMMARY":       "Reserved - Maria Garcia",
	})
	require.NoError(t, err)

	assert.Equal(t, "ics_prop42_2025-07-01_2025-07-04_garcia", res.UID)
	assert.Equal(t, models.EntryReservation, res.EntryType)
	assert.Equal(t, "Maria Garcia", res.GuestName)
}

func TestICS_BlockSummaries(t *testing.T) {
	n := newNormalizer()

	for _, summary := range []string{"Owner Block", "Not available", "Maintenance hold"} {
		res, err := n.ICS(normalize.Row{
			"Property Name": "Desert Rose Villa",
			"DTSTART":       "20250701",
			"DTEND":         "20250704",
			"SUMMARY":       summary,
		})
		require.NoError(t, err, summary)
		assert.Equal(t, models.EntryBlock, res.EntryType, summary)
		assert.Empty(t, res.GuestName, summary)
	}
}

func TestForSource(t *testing.T) {
	n := newNormalizer()

	for _, src := range []models.Source{models.SourceITrip, models.SourceEvolve, models.SourceICS} {
		fn, ok := n.ForSource(src)
		assert.True(t, ok, string(src))
		assert.NotNil(t, fn)
	}

	_, ok := n.ForSource("airbnb")
	assert.False(t, ok)
}

func TestInstructions(t *testing.T) {
	assert.Equal(t, "", normalize.Instructions("   "))
	assert.Equal(t, "Gate code 4821", normalize.Instructions("  Gate code 4821  "))

	long := strings.Repeat("x", 300)
	assert.Len(t, normalize.Instructions(long), 200)

	// Invalid UTF-8 is repaired, not passed through.
	repaired := normalize.Instructions("caf\xffe")
	assert.True(t, strings.HasPrefix(repaired, "caf"))
	assert.NotContains(t, repaired, "\xff")
}

func TestInstructions_CapRespectsRuneBoundaries(t *testing.T) {
	// A multi-byte character straddling the 200-byte mark survives whole.
	exact := strings.Repeat("a", 199) + "é"
	assert.Equal(t, exact, normalize.Instructions(exact))
	assert.True(t, utf8.ValidString(normalize.Instructions(exact)))

	// The cap counts characters, not bytes.
	over := strings.Repeat("é", 250)
	capped := normalize.Instructions(over)
	assert.Equal(t, 200, utf8.RuneCountInString(capped))
	assert.True(t, utf8.ValidString(capped))
}
