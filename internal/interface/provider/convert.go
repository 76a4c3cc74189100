package provider

import (
	"math"
	"strings"
	"time"

	"flightdata-service/internal/domain/entity"
)

// Timestamp layouts tried in order: strict fractional-seconds first, then a
// whole-second retry. Records whose timestamps fit neither are dropped, not
// treated as a batch failure.
const timeLayoutFractional = "2006-01-02T15:04:05.000Z07:00"

func parseFlightTime(s string) (time.Time, bool) {
	if t, err := time.Parse(timeLayoutFractional, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseOptionalTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, ok := parseFlightTime(*s)
	if !ok {
		return nil
	}
	return &t
}

// MapFlightStatus folds a provider's free-text status vocabulary onto the
// canonical taxonomy by lower-cased substring match, defaulting to
// scheduled when nothing matches or the field is absent.
//
// Incident and diverted map to cancelled. That loses distinct real-world
// semantics; it is a documented simplification of the closed taxonomy, not
// a bug.
func MapFlightStatus(raw string) entity.FlightStatus {
	s := strings.ToLower(raw)
	switch {
	case s == "":
		return entity.StatusScheduled
	case strings.Contains(s, "scheduled"):
		return entity.StatusScheduled
	case strings.Contains(s, "active"), strings.Contains(s, "airborne"), strings.Contains(s, "en-route"):
		return entity.StatusInAir
	case strings.Contains(s, "landed"):
		return entity.StatusLanded
	case strings.Contains(s, "cancelled"), strings.Contains(s, "incident"), strings.Contains(s, "diverted"):
		return entity.StatusCancelled
	case strings.Contains(s, "delayed"):
		return entity.StatusDelayed
	default:
		return entity.StatusScheduled
	}
}

// delayMinutes computes a signed delay as floor((actual-scheduled)/60s).
func delayMinutes(actual, scheduled time.Time) int {
	return int(math.Floor(actual.Sub(scheduled).Minutes()))
}
