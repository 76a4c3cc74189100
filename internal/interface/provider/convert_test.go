package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdata-service/internal/domain/entity"
)

func TestParseFlightTimeLayouts(t *testing.T) {
	fractional, ok := parseFlightTime("2025-06-01T10:30:00.000+00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), fractional.UTC())

	whole, ok := parseFlightTime("2025-06-01T10:30:00Z")
	require.True(t, ok)
	assert.True(t, fractional.Equal(whole))

	zoned, ok := parseFlightTime("2025-06-01T10:30:00-04:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC), zoned.UTC())

	_, ok = parseFlightTime("2025-06-01 10:30")
	assert.False(t, ok)
	_, ok = parseFlightTime("")
	assert.False(t, ok)
}

func TestParseOptionalTime(t *testing.T) {
	assert.Nil(t, parseOptionalTime(nil))

	empty := ""
	assert.Nil(t, parseOptionalTime(&empty))

	bad := "not a time"
	assert.Nil(t, parseOptionalTime(&bad))

	good := "2025-06-01T10:30:00Z"
	parsed := parseOptionalTime(&good)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), parsed.UTC())
}

func TestMapFlightStatus(t *testing.T) {
	cases := map[string]entity.FlightStatus{
		"":                  entity.StatusScheduled,
		"scheduled":         entity.StatusScheduled,
		"Scheduled":         entity.StatusScheduled,
		"active":            entity.StatusInAir,
		"EnRoute Airborne":  entity.StatusInAir,
		"en-route":          entity.StatusInAir,
		"landed":            entity.StatusLanded,
		"Arrived Landed":    entity.StatusLanded,
		"cancelled":         entity.StatusCancelled,
		"incident":          entity.StatusCancelled,
		"diverted":          entity.StatusCancelled,
		"delayed":           entity.StatusDelayed,
		"Departure Delayed": entity.StatusDelayed,
		"something else":    entity.StatusScheduled,
	}

	for raw, want := range cases {
		assert.Equal(t, want, MapFlightStatus(raw), "status %q", raw)
	}
}

func TestDelayMinutesIsSigned(t *testing.T) {
	scheduled := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, delayMinutes(scheduled.Add(90*time.Minute), scheduled))
	assert.Equal(t, -15, delayMinutes(scheduled.Add(-15*time.Minute), scheduled))
	assert.Equal(t, 0, delayMinutes(scheduled.Add(30*time.Second), scheduled))
	// Floor, not truncation: 30s early is a minute early.
	assert.Equal(t, -1, delayMinutes(scheduled.Add(-30*time.Second), scheduled))
}
