package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/pkg/logger"
)

func newAviationAPI(t *testing.T, ref ReferenceLookup, handler http.HandlerFunc) *AviationAPIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewAviationAPIProvider(ref, nil, logger.NewNopLogger())
	p.baseURL = srv.URL
	return p
}

const aviationAPIRecord = `{
	"flight_number": "UA555",
	"airline": "United Airlines",
	"departure_airport": "LAX",
	"arrival_airport": "SFO",
	"departure_time": "2025-06-01T14:00:00Z",
	"arrival_time": "2025-06-01T15:30:00Z",
	"status": "scheduled",
	"gate": "C10",
	"terminal": "7"
}`

func TestAviationAPIDecodesBareArray(t *testing.T) {
	p := newAviationAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "UA555", r.URL.Query().Get("flight"))
		w.Write([]byte(`[` + aviationAPIRecord + `]`))
	})

	flights, err := p.SearchFlights(context.Background(), "UA555")
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "UA555", flights[0].FlightNumber)
	assert.Equal(t, "United Airlines", flights[0].Airline)
	assert.Equal(t, entity.StatusScheduled, flights[0].Status)
	require.NotNil(t, flights[0].DepartureGate)
	assert.Equal(t, "C10", *flights[0].DepartureGate)
}

func TestAviationAPIDecodesWrappedArray(t *testing.T) {
	p := newAviationAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [` + aviationAPIRecord + `]}`))
	})

	flights, err := p.SearchFlights(context.Background(), "UA555")
	require.NoError(t, err)
	require.Len(t, flights, 1)
}

func TestAviationAPIMalformedBody(t *testing.T) {
	p := newAviationAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"just a string"`))
	})

	_, err := p.SearchFlights(context.Background(), "UA555")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformedResponse, kind)
}

func TestAviationAPIResolvesAirportsFromReference(t *testing.T) {
	ref := func(ctx context.Context, code string) (entity.Airport, bool) {
		if code == "LAX" {
			return entity.Airport{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles"}, true
		}
		return entity.Airport{}, false
	}

	p := newAviationAPI(t, ref, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[` + aviationAPIRecord + `]`))
	})

	flights, err := p.SearchFlights(context.Background(), "UA555")
	require.NoError(t, err)
	require.Len(t, flights, 1)

	assert.Equal(t, "Los Angeles", flights[0].Origin.City)
	// SFO is not in the reference; the sentinel airport is synthesized.
	assert.Equal(t, "SFO", flights[0].Destination.Code)
	assert.Equal(t, entity.UnknownField, flights[0].Destination.Country)
}

func TestAviationAPIEmptyQuery(t *testing.T) {
	p := newAviationAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})

	_, err := p.SearchFlights(context.Background(), "")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidRequest, kind)
}

func TestAviationAPIHasNoCredentialRequirement(t *testing.T) {
	p := NewAviationAPIProvider(nil, nil, logger.NewNopLogger())
	assert.True(t, p.HasCredential())
}
