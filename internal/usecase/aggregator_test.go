package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/infrastructure/seed"
	"flightdata-service/internal/interface/provider"
	"flightdata-service/pkg/logger"
	"flightdata-service/pkg/utils"
)

type stubProvider struct {
	name     string
	cred     bool
	calls    int
	searchFn func(ctx context.Context, query string) ([]entity.Flight, error)
}

func (s *stubProvider) Name() string        { return s.name }
func (s *stubProvider) HasCredential() bool { return s.cred }

func (s *stubProvider) SearchFlights(ctx context.Context, query string) ([]entity.Flight, error) {
	s.calls++
	return s.searchFn(ctx, query)
}

func (s *stubProvider) GetFlight(ctx context.Context, flightNumber string, date *time.Time) (*entity.Flight, error) {
	flights, err := s.searchFn(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return nil, nil
	}
	return &flights[0], nil
}

type memoryStore struct {
	flights []entity.Flight
	saves   int
}

func (m *memoryStore) LoadUserFlights(ctx context.Context) ([]entity.Flight, error) {
	return m.flights, nil
}

func (m *memoryStore) SaveUserFlights(ctx context.Context, flights []entity.Flight) error {
	m.flights = flights
	m.saves++
	return nil
}

func providerFlight(number string) entity.Flight {
	dep := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return entity.Flight{
		ID:                 entity.NewFlightID(),
		FlightNumber:       number,
		Airline:            "American Airlines",
		Origin:             entity.Airport{Code: "JFK"},
		Destination:        entity.Airport{Code: "LAX"},
		ScheduledDeparture: dep,
		ScheduledArrival:   dep.Add(6 * time.Hour),
		Status:             entity.StatusScheduled,
	}
}

func newAggregator(t *testing.T, p provider.Provider, store *memoryStore) *FlightAggregator {
	t.Helper()
	dataset, err := seed.NewDataset()
	require.NoError(t, err)

	log := logger.NewNopLogger()
	parser := utils.NewQueryParser(nil, log)

	var providers []provider.Provider
	if p != nil {
		providers = append(providers, p)
	}

	agg := NewFlightAggregator(providers, store, dataset, parser, nil, nil, log)
	require.NoError(t, agg.Restore(context.Background()))
	return agg
}

func TestSearchUsesProviderAndPrependsUserFlights(t *testing.T) {
	p := &stubProvider{name: "stub", cred: true, searchFn: func(ctx context.Context, query string) ([]entity.Flight, error) {
		return []entity.Flight{providerFlight("AA100")}, nil
	}}
	store := &memoryStore{}
	agg := newAggregator(t, p, store)

	user := providerFlight("AA100")
	user.Airline = "My Airline"
	_, err := agg.AddUserFlight(context.Background(), user)
	require.NoError(t, err)

	results := agg.Search(context.Background(), "AA100")
	// User flight first, provider result after it; no dedup even though the
	// flight numbers collide.
	require.Len(t, results, 2)
	assert.Equal(t, "My Airline", results[0].Airline)
	assert.Equal(t, "American Airlines", results[1].Airline)
	assert.NoError(t, agg.LastError())
}

func TestSearchFallsBackOnTransportFailure(t *testing.T) {
	p := &stubProvider{name: "stub", cred: true, searchFn: func(ctx context.Context, query string) ([]entity.Flight, error) {
		return nil, &provider.Error{Provider: "stub", Kind: provider.KindTransportFailure, Message: "request failed"}
	}}
	agg := newAggregator(t, p, &memoryStore{})

	results := agg.Search(context.Background(), "AA100")
	// Seed data answers: AA100 exists in the fixtures.
	require.NotEmpty(t, results)
	assert.Equal(t, "AA100", results[0].FlightNumber)

	err := agg.LastError()
	require.Error(t, err)
	kind, ok := provider.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, provider.KindTransportFailure, kind)

	// Transient failure: the provider stays active and is tried again.
	agg.Search(context.Background(), "AA100")
	assert.Equal(t, 2, p.calls)
}

func TestMissingCredentialSidelinesProvider(t *testing.T) {
	p := &stubProvider{name: "stub", cred: true, searchFn: func(ctx context.Context, query string) ([]entity.Flight, error) {
		return nil, &provider.Error{Provider: "stub", Kind: provider.KindMissingCredential}
	}}
	agg := newAggregator(t, p, &memoryStore{})

	agg.Search(context.Background(), "AA100")
	agg.Search(context.Background(), "AA100")
	agg.Search(context.Background(), "AA100")

	assert.Equal(t, 1, p.calls)
}

func TestSearchSkipsUncredentialedProvider(t *testing.T) {
	p := &stubProvider{name: "stub", cred: false, searchFn: func(ctx context.Context, query string) ([]entity.Flight, error) {
		return []entity.Flight{providerFlight("AA100")}, nil
	}}
	agg := newAggregator(t, p, &memoryStore{})

	results := agg.Search(context.Background(), "delta")
	assert.Equal(t, 0, p.calls)
	// Local search matches the seed Delta flight by airline name.
	require.NotEmpty(t, results)
	assert.Equal(t, "DL200", results[0].FlightNumber)
}

func TestBlankQueryReturnsAllLocalFlights(t *testing.T) {
	p := &stubProvider{name: "stub", cred: true, searchFn: func(ctx context.Context, query string) ([]entity.Flight, error) {
		return []entity.Flight{providerFlight("AA100")}, nil
	}}
	store := &memoryStore{}
	agg := newAggregator(t, p, store)

	user := providerFlight("XX123")
	_, err := agg.AddUserFlight(context.Background(), user)
	require.NoError(t, err)

	results := agg.Search(context.Background(), "   ")
	assert.Equal(t, 0, p.calls)
	// User flights precede the seed set.
	require.NotEmpty(t, results)
	assert.Equal(t, "XX123", results[0].FlightNumber)
	assert.Greater(t, len(results), 1)
}

func TestLocalSearchMatchesCities(t *testing.T) {
	agg := newAggregator(t, nil, &memoryStore{})

	results := agg.Search(context.Background(), "tokyo")
	require.NotEmpty(t, results)
	assert.Equal(t, "NH7", results[0].FlightNumber)
}

func TestGetFlightFallsBackToLocalExactMatch(t *testing.T) {
	p := &stubProvider{name: "stub", cred: true, searchFn: func(ctx context.Context, query string) ([]entity.Flight, error) {
		return nil, nil
	}}
	agg := newAggregator(t, p, &memoryStore{})

	flight := agg.GetFlight(context.Background(), "aal100", nil)
	require.NotNil(t, flight)
	assert.Equal(t, "AA100", flight.FlightNumber)

	assert.Nil(t, agg.GetFlight(context.Background(), "ZZ999", nil))
}

func TestUserFlightLifecycle(t *testing.T) {
	store := &memoryStore{}
	agg := newAggregator(t, nil, store)
	ctx := context.Background()

	saved, err := agg.AddUserFlight(ctx, providerFlight("AV118"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, store.saves)
	require.Len(t, store.flights, 1)

	require.NoError(t, agg.DeleteUserFlight(ctx, saved.ID))
	assert.Equal(t, 2, store.saves)
	assert.Empty(t, store.flights)

	err = agg.DeleteUserFlight(ctx, "missing")
	assert.Error(t, err)
}

func TestRestoreLoadsPersistedFlights(t *testing.T) {
	store := &memoryStore{flights: []entity.Flight{providerFlight("BA117")}}
	agg := newAggregator(t, nil, store)

	flights := agg.UserFlights()
	require.Len(t, flights, 1)
	assert.Equal(t, "BA117", flights[0].FlightNumber)
}

func TestTripLifecycle(t *testing.T) {
	agg := newAggregator(t, nil, &memoryStore{})
	now := time.Now()

	future := providerFlight("UA1")
	future.ScheduledDeparture = now.Add(48 * time.Hour)
	future.ScheduledArrival = now.Add(52 * time.Hour)
	past := providerFlight("UA2")
	past.ScheduledDeparture = now.Add(-52 * time.Hour)
	past.ScheduledArrival = now.Add(-48 * time.Hour)

	upcoming := agg.AddTrip("Summer", []entity.Flight{future})
	finished := agg.AddTrip("Winter", []entity.Flight{past})
	assert.NotEqual(t, upcoming.ID, finished.ID)

	upcomingTrips := agg.UpcomingTrips()
	require.Len(t, upcomingTrips, 1)
	assert.Equal(t, "Summer", upcomingTrips[0].Name)

	pastTrips := agg.PastTrips()
	require.Len(t, pastTrips, 1)
	assert.Equal(t, "Winter", pastTrips[0].Name)

	another := providerFlight("UA3")
	require.NoError(t, agg.AddFlightToTrip(upcoming.ID, another))
	assert.Error(t, agg.AddFlightToTrip("missing", another))

	require.NoError(t, agg.DeleteTrip(finished.ID))
	assert.Empty(t, agg.PastTrips())
	assert.Error(t, agg.DeleteTrip(finished.ID))
}

func TestUpcomingTripsSortedSoonestFirst(t *testing.T) {
	agg := newAggregator(t, nil, &memoryStore{})
	now := time.Now()

	later := providerFlight("UA1")
	later.ScheduledDeparture = now.Add(72 * time.Hour)
	later.ScheduledArrival = now.Add(76 * time.Hour)
	sooner := providerFlight("UA2")
	sooner.ScheduledDeparture = now.Add(24 * time.Hour)
	sooner.ScheduledArrival = now.Add(28 * time.Hour)

	agg.AddTrip("Later", []entity.Flight{later})
	agg.AddTrip("Sooner", []entity.Flight{sooner})

	trips := agg.UpcomingTrips()
	require.Len(t, trips, 2)
	assert.Equal(t, "Sooner", trips[0].Name)
	assert.Equal(t, "Later", trips[1].Name)
}
