package entity

import "fmt"

// FlightStatus is the closed status taxonomy of the canonical model. Every
// provider status string maps onto exactly one of these values.
type FlightStatus string

const (
	StatusScheduled FlightStatus = "scheduled"
	StatusBoarding  FlightStatus = "boarding"
	StatusDeparted  FlightStatus = "departed"
	StatusInAir     FlightStatus = "inAir"
	StatusLanded    FlightStatus = "landed"
	StatusDelayed   FlightStatus = "delayed"
	StatusCancelled FlightStatus = "cancelled"
)

// TimeStatusKind classifies a flight's punctuality.
type TimeStatusKind int

const (
	OnTime TimeStatusKind = iota
	Early
	Delayed
)

// TimeStatus is a derived classification of how a flight is running. It is
// computed, never stored.
type TimeStatus struct {
	Kind    TimeStatusKind
	Minutes int
}

// String returns a display string for the time status.
func (t TimeStatus) String() string {
	switch t.Kind {
	case Early:
		return fmt.Sprintf("Early by %d min", t.Minutes)
	case Delayed:
		return fmt.Sprintf("Delayed %d min", t.Minutes)
	default:
		return "On Time"
	}
}
