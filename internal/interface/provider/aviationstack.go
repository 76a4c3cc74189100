package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/pkg/logger"
	"flightdata-service/pkg/metrics"
	"flightdata-service/pkg/utils"
)

const aviationStackBaseURL = "https://api.aviationstack.com/v1"

// AviationStackProvider queries the AviationStack flight API. Auth is an
// access_key query parameter.
type AviationStackProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	parser     *utils.QueryParser
	airports   *AirportCache
	logger     logger.Logger
}

// NewAviationStackProvider creates an AviationStack adapter with its own
// airport cache.
func NewAviationStackProvider(apiKey string, parser *utils.QueryParser, m *metrics.Metrics, log logger.Logger) *AviationStackProvider {
	return &AviationStackProvider{
		apiKey:     apiKey,
		baseURL:    aviationStackBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		parser:     parser,
		airports:   NewAirportCache(nil, m),
		logger:     log.With("provider", "aviationstack"),
	}
}

func (a *AviationStackProvider) Name() string { return "aviationstack" }

// HasCredential reports whether an API key is configured.
func (a *AviationStackProvider) HasCredential() bool { return a.apiKey != "" }

// SearchFlights performs a flight search using the dual-submission query
// strategy: the classified primary key plus the raw term as a fallback.
func (a *AviationStackProvider) SearchFlights(ctx context.Context, query string) ([]entity.Flight, error) {
	if !a.HasCredential() {
		return nil, missingCredential(a.Name(), "AVIATIONSTACK_API_KEY not configured")
	}

	q := a.parser.Parse(ctx, query)
	if q.FreeText == "" {
		return nil, invalidRequest(a.Name(), "empty query")
	}

	params := url.Values{
		"access_key": {a.apiKey},
		"limit":      {"20"},
	}
	if q.IsFlightNumber() {
		params.Set("flight_iata", q.FlightNumber)
		params.Set("search", q.FreeText)
	} else {
		if q.AirlineCode != "" {
			params.Set("airline_iata", q.AirlineCode)
		}
		params.Set("airline_name", q.FreeText)
		params.Set("search", q.FreeText)
	}

	raw, err := a.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	flights := make([]entity.Flight, 0, len(raw.Data))
	for _, rec := range raw.Data {
		if flight := a.convert(ctx, rec); flight != nil {
			flights = append(flights, *flight)
		}
	}
	return flights, nil
}

// GetFlight looks up a flight by IATA flight number, optionally scoped to a
// flight date.
func (a *AviationStackProvider) GetFlight(ctx context.Context, flightNumber string, date *time.Time) (*entity.Flight, error) {
	if !a.HasCredential() {
		return nil, missingCredential(a.Name(), "AVIATIONSTACK_API_KEY not configured")
	}

	params := url.Values{
		"access_key":  {a.apiKey},
		"flight_iata": {a.parser.NormalizeFlightNumber(flightNumber)},
	}
	if date != nil {
		params.Set("flight_date", date.Format("2006-01-02"))
	}

	raw, err := a.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, rec := range raw.Data {
		if flight := a.convert(ctx, rec); flight != nil {
			return flight, nil
		}
	}
	return nil, nil
}

func (a *AviationStackProvider) fetch(ctx context.Context, params url.Values) (*asResponse, error) {
	u := a.baseURL + "/flights?" + params.Encode()
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

	var raw asResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, malformedResponse(a.Name(), err)
	}
	return &raw, nil
}

// convert maps one raw record to a canonical flight. Conversion is
// all-or-nothing: a record missing any identity field yields nothing, and
// the batch keeps going.
func (a *AviationStackProvider) convert(ctx context.Context, rec asFlight) *entity.Flight {
	flightNumber := firstNonNil(rec.Flight.IATA, rec.Flight.Number)
	if flightNumber == "" || rec.Airline.Name == nil ||
		rec.Departure.IATA == nil || rec.Arrival.IATA == nil ||
		rec.Departure.Scheduled == nil || rec.Arrival.Scheduled == nil {
		a.logger.Debug("Dropping record with missing identity fields")
		return nil
	}

	scheduledDep, okDep := parseFlightTime(*rec.Departure.Scheduled)
	scheduledArr, okArr := parseFlightTime(*rec.Arrival.Scheduled)
	if !okDep || !okArr {
		a.logger.Debug("Dropping record with unparseable schedule",
			"departure", *rec.Departure.Scheduled, "arrival", *rec.Arrival.Scheduled)
		return nil
	}

	origin := a.airports.Resolve(ctx, *rec.Departure.IATA, AirportHints{
		Name:     stringOrEmpty(rec.Departure.Airport),
		Timezone: stringOrEmpty(rec.Departure.Timezone),
	})
	destination := a.airports.Resolve(ctx, *rec.Arrival.IATA, AirportHints{
		Name:     stringOrEmpty(rec.Arrival.Airport),
		Timezone: stringOrEmpty(rec.Arrival.Timezone),
	})

	actualDep := parseOptionalTime(rec.Departure.Actual)
	actualArr := parseOptionalTime(rec.Arrival.Actual)

	delay := rec.Departure.Delay
	if delay == nil {
		delay = rec.Arrival.Delay
	}
	if delay == nil && actualDep != nil {
		d := delayMinutes(*actualDep, scheduledDep)
		delay = &d
	}

	var aircraft *string
	if rec.Aircraft != nil {
		if v := firstNonNil(rec.Aircraft.IATA, rec.Aircraft.ICAO); v != "" {
			aircraft = &v
		}
	}

	return &entity.Flight{
		ID:                 entity.NewFlightID(),
		FlightNumber:       flightNumber,
		Airline:            *rec.Airline.Name,
		Origin:             origin,
		Destination:        destination,
		ScheduledDeparture: scheduledDep,
		ScheduledArrival:   scheduledArr,
		ActualDeparture:    actualDep,
		ActualArrival:      actualArr,
		Status:             MapFlightStatus(rec.FlightStatus),
		DepartureGate:      rec.Departure.Gate,
		DepartureTerminal:  rec.Departure.Terminal,
		ArrivalGate:        rec.Arrival.Gate,
		ArrivalTerminal:    rec.Arrival.Terminal,
		BaggageClaim:       rec.Arrival.Baggage,
		Aircraft:           aircraft,
		Delay:              delay,
	}
}

// AviationStack wire types

type asResponse struct {
	Data []asFlight `json:"data"`
}

type asFlight struct {
	FlightDate   string        `json:"flight_date"`
	FlightStatus string        `json:"flight_status"`
	Departure    asAirportInfo `json:"departure"`
	Arrival      asAirportInfo `json:"arrival"`
	Airline      asAirline     `json:"airline"`
	Flight       asFlightInfo  `json:"flight"`
	Aircraft     *asAircraft   `json:"aircraft"`
}

type asAirportInfo struct {
	Airport   *string `json:"airport"`
	Timezone  *string `json:"timezone"`
	IATA      *string `json:"iata"`
	ICAO      *string `json:"icao"`
	Terminal  *string `json:"terminal"`
	Gate      *string `json:"gate"`
	Baggage   *string `json:"baggage"`
	Delay     *int    `json:"delay"`
	Scheduled *string `json:"scheduled"`
	Estimated *string `json:"estimated"`
	Actual    *string `json:"actual"`
}

type asAirline struct {
	Name *string `json:"name"`
	IATA *string `json:"iata"`
	ICAO *string `json:"icao"`
}

type asFlightInfo struct {
	Number *string `json:"number"`
	IATA   *string `json:"iata"`
	ICAO   *string `json:"icao"`
}

type asAircraft struct {
	Registration *string `json:"registration"`
	IATA         *string `json:"iata"`
	ICAO         *string `json:"icao"`
}

func firstNonNil(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
