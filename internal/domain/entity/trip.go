package entity

import "time"

// Trip is an ordered sequence of flights. It owns its flights by value.
type Trip struct {
	ID      string   `json:"id" bson:"_id"`
	Name    string   `json:"name" bson:"name"`
	Flights []Flight `json:"flights" bson:"flights"`
}

// Layover describes the connection between two consecutive flights of a
// trip. Duration is computed from scheduled times, not actual ones, so an
// itinerary's layovers stay stable regardless of delays.
type Layover struct {
	From     Flight
	To       Flight
	Duration time.Duration
}

// StartDate returns the scheduled departure of the first flight.
func (t *Trip) StartDate() (time.Time, bool) {
	if len(t.Flights) == 0 {
		return time.Time{}, false
	}
	return t.Flights[0].ScheduledDeparture, true
}

// EndDate returns the scheduled arrival of the last flight.
func (t *Trip) EndDate() (time.Time, bool) {
	if len(t.Flights) == 0 {
		return time.Time{}, false
	}
	return t.Flights[len(t.Flights)-1].ScheduledArrival, true
}

// IsUpcoming reports whether the trip starts in the future.
func (t *Trip) IsUpcoming() bool {
	start, ok := t.StartDate()
	return ok && start.After(time.Now())
}

// IsInProgress reports whether now falls inside the trip's span.
func (t *Trip) IsInProgress() bool {
	start, ok := t.StartDate()
	if !ok {
		return false
	}
	end, ok := t.EndDate()
	if !ok {
		return false
	}
	now := time.Now()
	return !now.Before(start) && !now.After(end)
}

// IsPast reports whether the trip has ended.
func (t *Trip) IsPast() bool {
	end, ok := t.EndDate()
	return ok && end.Before(time.Now())
}

// Layovers returns the gaps between consecutive flights.
func (t *Trip) Layovers() []Layover {
	if len(t.Flights) < 2 {
		return nil
	}

	layovers := make([]Layover, 0, len(t.Flights)-1)
	for i := 0; i < len(t.Flights)-1; i++ {
		current := t.Flights[i]
		next := t.Flights[i+1]
		layovers = append(layovers, Layover{
			From:     current,
			To:       next,
			Duration: next.ScheduledDeparture.Sub(current.ScheduledArrival),
		})
	}
	return layovers
}
