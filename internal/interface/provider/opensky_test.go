package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/pkg/logger"
)

func TestStateValueDecoding(t *testing.T) {
	var row []StateValue
	require.NoError(t, json.Unmarshal([]byte(`["abc123", 40.7, true, null]`), &row))
	require.Len(t, row, 4)

	s, ok := row[0].AsString()
	require.True(t, ok)
	assert.Equal(t, "abc123", s)
	_, ok = row[0].AsFloat()
	assert.False(t, ok)

	f, ok := row[1].AsFloat()
	require.True(t, ok)
	assert.InDelta(t, 40.7, f, 0.001)

	b, ok := row[2].AsBool()
	require.True(t, ok)
	assert.True(t, b)

	_, ok = row[3].AsString()
	assert.False(t, ok)
	_, ok = row[3].AsFloat()
	assert.False(t, ok)
	_, ok = row[3].AsBool()
	assert.False(t, ok)
}

func newOpenSky(t *testing.T, handler http.HandlerFunc) *OpenSkyProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOpenSkyProvider(nil, logger.NewNopLogger())
	p.baseURL = srv.URL
	p.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

const openSkyBody = `{
	"time": 1748779200,
	"states": [
		["abc123", "UAL456  ", "United States", 1748779200, 1748779200, -73.9, 40.7, 10000.0, false, 250.0, 180.0, 0.0],
		["def456", "DAL789  ", "United States", 1748779200, 1748779200, -87.9, 41.9, 0.0, true, 5.0, 90.0, 0.0],
		["ghi789", null, "Germany", 1748779200, 1748779200, 8.5, 50.0, 11000.0, false, 240.0, 200.0, 0.0],
		["jkl012", "BAW100  ", "United Kingdom", 1748779200, 1748779200, null, 51.5, 11000.0, false, 240.0, 200.0, 0.0],
		["short", "AFR1"]
	]
}`

func TestOpenSkyLiveFlights(t *testing.T) {
	p := newOpenSky(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/states/all", r.URL.Path)
		w.Write([]byte(openSkyBody))
	})

	flights, err := p.LiveFlights(context.Background())
	require.NoError(t, err)
	// Grounded, callsign-less, position-less and short vectors all drop.
	require.Len(t, flights, 1)

	f := flights[0]
	assert.Equal(t, "UAL456", f.FlightNumber)
	assert.Equal(t, entity.StatusInAir, f.Status)
	assert.Equal(t, entity.UnknownField, f.Airline)
	assert.Equal(t, "---", f.Origin.Code)
	assert.Equal(t, "United States", f.Origin.Country)
	assert.InDelta(t, 40.7, f.Origin.Latitude, 0.001)
	assert.Equal(t, "???", f.Destination.Code)
	assert.InDelta(t, 45.7, f.Destination.Latitude, 0.001)
	require.NotNil(t, f.ActualDeparture)
	assert.True(t, f.ScheduledArrival.After(f.ScheduledDeparture))
}

func TestOpenSkyLiveFlightLimit(t *testing.T) {
	states := make([][]interface{}, 0, liveFlightLimit+10)
	for i := 0; i < liveFlightLimit+10; i++ {
		states = append(states, []interface{}{
			"icao", "UAL456  ", "United States", 0, 0, -73.9, 40.7, 10000.0, false, 250.0, 180.0, 0.0,
		})
	}
	body, err := json.Marshal(map[string]interface{}{"time": 0, "states": states})
	require.NoError(t, err)

	p := newOpenSky(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	})

	flights, err := p.LiveFlights(context.Background())
	require.NoError(t, err)
	assert.Len(t, flights, liveFlightLimit)
}

func TestOpenSkyUpstreamError(t *testing.T) {
	p := newOpenSky(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.LiveFlights(context.Background())
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamError, kind)
}

func TestOpenSkySearchSurfacesAreEmpty(t *testing.T) {
	p := NewOpenSkyProvider(nil, logger.NewNopLogger())

	flights, err := p.SearchFlights(context.Background(), "UA456")
	require.NoError(t, err)
	assert.Nil(t, flights)

	flight, err := p.GetFlight(context.Background(), "UA456", nil)
	require.NoError(t, err)
	assert.Nil(t, flight)
}
