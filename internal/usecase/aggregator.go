package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/domain/repository"
	"flightdata-service/internal/infrastructure/seed"
	"flightdata-service/internal/interface/provider"
	"flightdata-service/pkg/logger"
	"flightdata-service/pkg/metrics"
	"flightdata-service/pkg/utils"
)

// LiveSource supplies live aircraft positions, independent of the search
// providers. Optional.
type LiveSource interface {
	LiveFlights(ctx context.Context) ([]entity.Flight, error)
}

// FlightAggregator orchestrates search across providers, user-authored
// flights and the seed dataset. Search never returns an error: any provider
// failure degrades to local data and is reported through LastError.
type FlightAggregator struct {
	providers []provider.Provider
	store     repository.FlightStore
	dataset   *seed.Dataset
	parser    *utils.QueryParser
	live      LiveSource
	metrics   *metrics.Metrics
	logger    logger.Logger

	mu          sync.RWMutex
	userFlights []entity.Flight
	trips       []entity.Trip
	deactivated map[string]bool
	lastErr     error

	now func() time.Time
}

// NewFlightAggregator creates the aggregator. store, live and m may be nil;
// providers are consulted in the given order.
func NewFlightAggregator(
	providers []provider.Provider,
	store repository.FlightStore,
	dataset *seed.Dataset,
	parser *utils.QueryParser,
	live LiveSource,
	m *metrics.Metrics,
	logger logger.Logger,
) *FlightAggregator {
	return &FlightAggregator{
		providers:   providers,
		store:       store,
		dataset:     dataset,
		parser:      parser,
		live:        live,
		metrics:     m,
		logger:      logger,
		deactivated: make(map[string]bool),
		now:         time.Now,
	}
}

// Restore loads persisted user flights into memory. Called once at startup;
// a missing store is not an error.
func (fa *FlightAggregator) Restore(ctx context.Context) error {
	if fa.store == nil {
		return nil
	}

	flights, err := fa.store.LoadUserFlights(ctx)
	if err != nil {
		return fmt.Errorf("restoring user flights: %w", err)
	}

	fa.mu.Lock()
	fa.userFlights = flights
	fa.mu.Unlock()

	fa.logger.Info("Restored user flights", "count", len(flights))
	return nil
}

// Search resolves a free-text query. When a credentialed provider is active
// and the query is non-blank, provider results are returned with matching
// user flights prepended. Otherwise, or when the provider fails, the search
// runs over user and seed flights locally.
func (fa *FlightAggregator) Search(ctx context.Context, rawQuery string) []entity.Flight {
	start := time.Now()
	defer func() {
		if fa.metrics != nil {
			fa.metrics.SearchDuration.Observe(time.Since(start).Seconds())
		}
	}()
	if fa.metrics != nil {
		fa.metrics.SearchesTotal.Inc()
	}

	query := fa.parser.Parse(ctx, rawQuery)

	if p := fa.activeProvider(); p != nil && query.FreeText != "" {
		results, err := p.SearchFlights(ctx, query.FreeText)
		if err == nil {
			fa.clearLastError()
			return append(fa.matchingUserFlights(query.FreeText), results...)
		}
		fa.recordFailure(p, err)
	}

	if fa.metrics != nil {
		fa.metrics.FallbacksTotal.Inc()
	}
	return fa.localSearch(query.FreeText)
}

// GetFlight looks up a single flight by number, provider first, falling
// back to an exact local match. Returns nil when nothing is found.
func (fa *FlightAggregator) GetFlight(ctx context.Context, flightNumber string, date *time.Time) *entity.Flight {
	normalized := fa.parser.NormalizeFlightNumber(flightNumber)

	if p := fa.activeProvider(); p != nil {
		flight, err := p.GetFlight(ctx, normalized, date)
		if err != nil {
			fa.recordFailure(p, err)
		} else if flight != nil {
			fa.clearLastError()
			return flight
		}
	}

	for _, f := range fa.allLocalFlights() {
		if strings.EqualFold(fa.parser.NormalizeFlightNumber(f.FlightNumber), normalized) {
			found := f
			return &found
		}
	}
	return nil
}

// LiveFlights returns current airborne aircraft from the live source.
func (fa *FlightAggregator) LiveFlights(ctx context.Context) ([]entity.Flight, error) {
	if fa.live == nil {
		return nil, nil
	}
	return fa.live.LiveFlights(ctx)
}

// LastError returns the most recent provider failure, or nil after a
// successful provider call. Search itself never fails; this is the side
// channel callers inspect when results look degraded.
func (fa *FlightAggregator) LastError() error {
	fa.mu.RLock()
	defer fa.mu.RUnlock()
	return fa.lastErr
}

// AddUserFlight stores a user-authored flight and persists the collection.
func (fa *FlightAggregator) AddUserFlight(ctx context.Context, flight entity.Flight) (entity.Flight, error) {
	if flight.ID == "" {
		flight.ID = entity.NewFlightID()
	}

	fa.mu.Lock()
	fa.userFlights = append(fa.userFlights, flight)
	snapshot := append([]entity.Flight(nil), fa.userFlights...)
	fa.mu.Unlock()

	if err := fa.persist(ctx, snapshot); err != nil {
		return flight, err
	}
	fa.logger.Info("User flight added", "flightNumber", flight.FlightNumber, "id", flight.ID)
	return flight, nil
}

// DeleteUserFlight removes a user-authored flight by ID.
func (fa *FlightAggregator) DeleteUserFlight(ctx context.Context, id string) error {
	fa.mu.Lock()
	idx := -1
	for i, f := range fa.userFlights {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		fa.mu.Unlock()
		return fmt.Errorf("user flight %s not found", id)
	}
	fa.userFlights = append(fa.userFlights[:idx], fa.userFlights[idx+1:]...)
	snapshot := append([]entity.Flight(nil), fa.userFlights...)
	fa.mu.Unlock()

	return fa.persist(ctx, snapshot)
}

func (fa *FlightAggregator) persist(ctx context.Context, flights []entity.Flight) error {
	if fa.store == nil {
		return nil
	}
	if err := fa.store.SaveUserFlights(ctx, flights); err != nil {
		return fmt.Errorf("persisting user flights: %w", err)
	}
	return nil
}

// UserFlights returns a copy of the user-authored flights.
func (fa *FlightAggregator) UserFlights() []entity.Flight {
	fa.mu.RLock()
	defer fa.mu.RUnlock()
	return append([]entity.Flight(nil), fa.userFlights...)
}

// AddTrip creates a trip from an ordered flight list.
func (fa *FlightAggregator) AddTrip(name string, flights []entity.Flight) entity.Trip {
	trip := entity.Trip{
		ID:      uuid.NewString(),
		Name:    name,
		Flights: flights,
	}

	fa.mu.Lock()
	fa.trips = append(fa.trips, trip)
	fa.mu.Unlock()

	fa.logger.Info("Trip added", "name", name, "flights", len(flights))
	return trip
}

// AddFlightToTrip appends a flight to an existing trip.
func (fa *FlightAggregator) AddFlightToTrip(tripID string, flight entity.Flight) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	for i := range fa.trips {
		if fa.trips[i].ID == tripID {
			fa.trips[i].Flights = append(fa.trips[i].Flights, flight)
			return nil
		}
	}
	return fmt.Errorf("trip %s not found", tripID)
}

// DeleteTrip removes a trip by ID.
func (fa *FlightAggregator) DeleteTrip(tripID string) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	for i := range fa.trips {
		if fa.trips[i].ID == tripID {
			fa.trips = append(fa.trips[:i], fa.trips[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trip %s not found", tripID)
}

// UpcomingTrips returns trips whose first flight departs in the future,
// soonest first.
func (fa *FlightAggregator) UpcomingTrips() []entity.Trip {
	fa.mu.RLock()
	defer fa.mu.RUnlock()

	var upcoming []entity.Trip
	for _, t := range fa.trips {
		if t.IsUpcoming() {
			upcoming = append(upcoming, t)
		}
	}
	sortTripsByStart(upcoming)
	return upcoming
}

// PastTrips returns trips whose last flight has arrived, most recent first.
func (fa *FlightAggregator) PastTrips() []entity.Trip {
	fa.mu.RLock()
	defer fa.mu.RUnlock()

	var past []entity.Trip
	for _, t := range fa.trips {
		if t.IsPast() {
			past = append(past, t)
		}
	}
	sortTripsByStart(past)
	for i, j := 0, len(past)-1; i < j; i, j = i+1, j-1 {
		past[i], past[j] = past[j], past[i]
	}
	return past
}

func sortTripsByStart(trips []entity.Trip) {
	sort.SliceStable(trips, func(i, j int) bool {
		a, _ := trips[i].StartDate()
		b, _ := trips[j].StartDate()
		return a.Before(b)
	})
}

// activeProvider returns the first configured provider that has its
// credential and has not been sidelined.
func (fa *FlightAggregator) activeProvider() provider.Provider {
	fa.mu.RLock()
	defer fa.mu.RUnlock()

	for _, p := range fa.providers {
		if fa.deactivated[p.Name()] {
			continue
		}
		if !p.HasCredential() {
			continue
		}
		return p
	}
	return nil
}

// recordFailure stores the failure for LastError and sidelines the
// provider when its credential is missing. Transient kinds leave the
// provider active for the next call.
func (fa *FlightAggregator) recordFailure(p provider.Provider, err error) {
	kind, known := provider.KindOf(err)
	kindLabel := "unknown"
	if known {
		kindLabel = kind.String()
	}
	if fa.metrics != nil {
		fa.metrics.ProviderErrors.WithLabelValues(p.Name(), kindLabel).Inc()
	}

	fa.mu.Lock()
	fa.lastErr = err
	if known && kind == provider.KindMissingCredential {
		fa.deactivated[p.Name()] = true
	}
	fa.mu.Unlock()

	fa.logger.Warn("Provider call failed, falling back to local data",
		"provider", p.Name(), "kind", kindLabel, "error", err)
}

func (fa *FlightAggregator) clearLastError() {
	fa.mu.Lock()
	fa.lastErr = nil
	fa.mu.Unlock()
}

// matchingUserFlights filters user flights against the query on flight
// number, airline and airport codes. A blank query matches everything.
func (fa *FlightAggregator) matchingUserFlights(query string) []entity.Flight {
	flights := fa.UserFlights()
	if strings.TrimSpace(query) == "" {
		return flights
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var matched []entity.Flight
	for _, f := range flights {
		if flightMatches(f, needle, false) {
			matched = append(matched, f)
		}
	}
	return matched
}

// localSearch runs the query over user flights followed by the seed
// dataset, matching on text fields including city names.
func (fa *FlightAggregator) localSearch(query string) []entity.Flight {
	flights := fa.allLocalFlights()
	if strings.TrimSpace(query) == "" {
		return flights
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var matched []entity.Flight
	for _, f := range flights {
		if flightMatches(f, needle, true) {
			matched = append(matched, f)
		}
	}
	return matched
}

// allLocalFlights returns user flights followed by seed flights. User
// flights come first so they win position in merged results.
func (fa *FlightAggregator) allLocalFlights() []entity.Flight {
	flights := fa.UserFlights()
	if fa.dataset != nil {
		flights = append(flights, fa.dataset.Flights(fa.now())...)
	}
	return flights
}

// flightMatches does a case-insensitive substring match. Cities only
// participate in full local search; the user-flight prepend path sticks
// to codes so provider merges stay tight.
func flightMatches(f entity.Flight, needle string, includeCities bool) bool {
	fields := []string{
		f.FlightNumber,
		f.Airline,
		f.Origin.Code,
		f.Destination.Code,
	}
	if includeCities {
		fields = append(fields, f.Origin.City, f.Destination.City)
	}

	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
