package entity

import (
	"time"

	"github.com/google/uuid"
)

// Thresholds for the derived time status, in minutes.
const (
	delayedThreshold = 15
	earlyThreshold   = -5
)

// Default boarding lead when a source does not supply a boarding time.
const defaultBoardingLead = 40 * time.Minute

// Flight is the canonical flight representation. Identity is an opaque
// unique ID assigned at creation, not derived from the flight number: the
// same flight number recurs across carriers and dates.
//
// Pointer fields are optional. Absence means "unknown", which is distinct
// from a present placeholder value.
type Flight struct {
	ID                 string       `json:"id" bson:"_id"`
	FlightNumber       string       `json:"flightNumber" bson:"flightNumber"`
	Airline            string       `json:"airline" bson:"airline"`
	Origin             Airport      `json:"origin" bson:"origin"`
	Destination        Airport      `json:"destination" bson:"destination"`
	ScheduledDeparture time.Time    `json:"scheduledDeparture" bson:"scheduledDeparture"`
	ScheduledArrival   time.Time    `json:"scheduledArrival" bson:"scheduledArrival"`
	ActualDeparture    *time.Time   `json:"actualDeparture,omitempty" bson:"actualDeparture,omitempty"`
	ActualArrival      *time.Time   `json:"actualArrival,omitempty" bson:"actualArrival,omitempty"`
	Status             FlightStatus `json:"status" bson:"status"`
	DepartureGate      *string      `json:"departureGate,omitempty" bson:"departureGate,omitempty"`
	DepartureTerminal  *string      `json:"departureTerminal,omitempty" bson:"departureTerminal,omitempty"`
	ArrivalGate        *string      `json:"arrivalGate,omitempty" bson:"arrivalGate,omitempty"`
	ArrivalTerminal    *string      `json:"arrivalTerminal,omitempty" bson:"arrivalTerminal,omitempty"`
	BaggageClaim       *string      `json:"baggageClaim,omitempty" bson:"baggageClaim,omitempty"`
	Aircraft           *string      `json:"aircraft,omitempty" bson:"aircraft,omitempty"`
	Delay              *int         `json:"delay,omitempty" bson:"delay,omitempty"` // minutes, signed
	BoardingTime       *time.Time   `json:"boardingTime,omitempty" bson:"boardingTime,omitempty"`
}

// NewFlightID returns a fresh opaque flight identity.
func NewFlightID() string {
	return uuid.NewString()
}

// DepartureTime returns the actual departure when known, else the schedule.
func (f *Flight) DepartureTime() time.Time {
	if f.ActualDeparture != nil {
		return *f.ActualDeparture
	}
	return f.ScheduledDeparture
}

// ArrivalTime returns the actual arrival when known, else the schedule.
func (f *Flight) ArrivalTime() time.Time {
	if f.ActualArrival != nil {
		return *f.ActualArrival
	}
	return f.ScheduledArrival
}

// Duration returns the effective flight duration.
func (f *Flight) Duration() time.Duration {
	return f.ArrivalTime().Sub(f.DepartureTime())
}

// IsUpcoming reports whether the flight has not yet departed per schedule.
func (f *Flight) IsUpcoming() bool {
	return f.ScheduledDeparture.After(time.Now())
}

// IsPast reports whether the flight's scheduled arrival has passed.
func (f *Flight) IsPast() bool {
	return f.ScheduledArrival.Before(time.Now())
}

// EstimatedBoardingTime returns the boarding time reported by the source,
// or 40 minutes before scheduled departure when none was provided.
func (f *Flight) EstimatedBoardingTime() time.Time {
	if f.BoardingTime != nil {
		return *f.BoardingTime
	}
	return f.ScheduledDeparture.Add(-defaultBoardingLead)
}

// TimeStatus derives the punctuality classification. A reported delay wins;
// otherwise the actual-vs-scheduled departure difference is used, then the
// arrival difference, then on-time. More than 15 minutes late is delayed,
// more than 5 minutes early is early.
func (f *Flight) TimeStatus() TimeStatus {
	if f.Delay != nil {
		if s, ok := classifyDiff(*f.Delay); ok {
			return s
		}
	}

	if f.ActualDeparture != nil {
		diff := int(f.ActualDeparture.Sub(f.ScheduledDeparture).Minutes())
		if s, ok := classifyDiff(diff); ok {
			return s
		}
	}

	if f.ActualArrival != nil {
		diff := int(f.ActualArrival.Sub(f.ScheduledArrival).Minutes())
		if s, ok := classifyDiff(diff); ok {
			return s
		}
	}

	return TimeStatus{Kind: OnTime}
}

func classifyDiff(minutes int) (TimeStatus, bool) {
	if minutes > delayedThreshold {
		return TimeStatus{Kind: Delayed, Minutes: minutes}, true
	}
	if minutes < earlyThreshold {
		return TimeStatus{Kind: Early, Minutes: -minutes}, true
	}
	return TimeStatus{}, false
}
