package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/pkg/logger"
	"flightdata-service/pkg/metrics"
)

const aviationAPIBaseURL = "https://api.aviationapi.com/v1"

// AviationAPIProvider queries the free aviationapi.com flight endpoint. No
// credential is required. The response shape has drifted over time, so the
// decoder accepts both a bare array and a {data: [...]} wrapper.
type AviationAPIProvider struct {
	baseURL    string
	httpClient *http.Client
	airports   *AirportCache
	logger     logger.Logger
}

// NewAviationAPIProvider creates the free-API adapter. ref supplies
// reference airports (typically the seed fixtures) consulted before the
// cache synthesizes an airport from the bare code.
func NewAviationAPIProvider(ref ReferenceLookup, m *metrics.Metrics, log logger.Logger) *AviationAPIProvider {
	return &AviationAPIProvider{
		baseURL:    aviationAPIBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		airports:   NewAirportCache(ref, m),
		logger:     log.With("provider", "aviationapi"),
	}
}

func (a *AviationAPIProvider) Name() string { return "aviationapi" }

// HasCredential always reports true; the API is unauthenticated.
func (a *AviationAPIProvider) HasCredential() bool { return true }

// SearchFlights queries by flight identifier. An empty query cannot be
// formed into a valid request.
func (a *AviationAPIProvider) SearchFlights(ctx context.Context, query string) ([]entity.Flight, error) {
	if query == "" {
		return nil, invalidRequest(a.Name(), "empty query")
	}

	u := a.baseURL + "/flights?flight=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, invalidRequest(a.Name(), "building request: "+err.Error())
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, transportFailure(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(a.Name(), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(a.Name(), err)
	}

	records, err := decodeFlightDataBody(body)
	if err != nil {
		return nil, malformedResponse(a.Name(), err)
	}

	flights := make([]entity.Flight, 0, len(records))
	for _, rec := range records {
		if flight := a.convert(ctx, rec); flight != nil {
			flights = append(flights, *flight)
		}
	}
	return flights, nil
}

// GetFlight searches by flight number and returns the first usable record.
func (a *AviationAPIProvider) GetFlight(ctx context.Context, flightNumber string, date *time.Time) (*entity.Flight, error) {
	flights, err := a.SearchFlights(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return nil, nil
	}
	return &flights[0], nil
}

// decodeFlightDataBody handles both known body shapes.
func decodeFlightDataBody(body []byte) ([]fdFlight, error) {
	var records []fdFlight
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapper fdResponse
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Data, nil
}

func (a *AviationAPIProvider) convert(ctx context.Context, rec fdFlight) *entity.Flight {
	if rec.FlightNumber == nil || rec.Airline == nil ||
		rec.DepartureAirport == nil || rec.ArrivalAirport == nil ||
		rec.DepartureTime == nil || rec.ArrivalTime == nil {
		a.logger.Debug("Dropping record with missing identity fields")
		return nil
	}

	scheduledDep, okDep := parseFlightTime(*rec.DepartureTime)
	scheduledArr, okArr := parseFlightTime(*rec.ArrivalTime)
	if !okDep || !okArr {
		a.logger.Debug("Dropping record with unparseable schedule")
		return nil
	}

	origin := a.airports.Resolve(ctx, *rec.DepartureAirport, AirportHints{})
	destination := a.airports.Resolve(ctx, *rec.ArrivalAirport, AirportHints{})

	return &entity.Flight{
		ID:                 entity.NewFlightID(),
		FlightNumber:       *rec.FlightNumber,
		Airline:            *rec.Airline,
		Origin:             origin,
		Destination:        destination,
		ScheduledDeparture: scheduledDep,
		ScheduledArrival:   scheduledArr,
		Status:             MapFlightStatus(stringOrEmpty(rec.Status)),
		DepartureGate:      rec.Gate,
		DepartureTerminal:  rec.Terminal,
	}
}

// aviationapi.com wire types

type fdResponse struct {
	Data []fdFlight `json:"data"`
}

type fdFlight struct {
	FlightNumber     *string `json:"flight_number"`
	Airline          *string `json:"airline"`
	DepartureAirport *string `json:"departure_airport"`
	ArrivalAirport   *string `json:"arrival_airport"`
	DepartureTime    *string `json:"departure_time"`
	ArrivalTime      *string `json:"arrival_time"`
	Status           *string `json:"status"`
	Gate             *string `json:"gate"`
	Terminal         *string `json:"terminal"`
}
