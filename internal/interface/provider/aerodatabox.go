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

const (
	aeroDataBoxBaseURL = "https://aerodatabox.p.rapidapi.com"
	aeroDataBoxHost    = "aerodatabox.p.rapidapi.com"
)

// AeroDataBoxProvider queries AeroDataBox through RapidAPI. Auth is a pair
// of RapidAPI headers; lookups are by flight number and date.
type AeroDataBoxProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	parser     *utils.QueryParser
	airports   *AirportCache
	logger     logger.Logger
	now        func() time.Time
}

// NewAeroDataBoxProvider creates an AeroDataBox adapter with its own
// airport cache.
func NewAeroDataBoxProvider(apiKey string, parser *utils.QueryParser, m *metrics.Metrics, log logger.Logger) *AeroDataBoxProvider {
	return &AeroDataBoxProvider{
		apiKey:     apiKey,
		baseURL:    aeroDataBoxBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		parser:     parser,
		airports:   NewAirportCache(nil, m),
		logger:     log.With("provider", "aerodatabox"),
		now:        time.Now,
	}
}

func (a *AeroDataBoxProvider) Name() string { return "aerodatabox" }

// HasCredential reports whether a RapidAPI key is configured.
func (a *AeroDataBoxProvider) HasCredential() bool { return a.apiKey != "" }

// SearchFlights treats the query as a flight number; AeroDataBox has no
// free-text search surface.
func (a *AeroDataBoxProvider) SearchFlights(ctx context.Context, query string) ([]entity.Flight, error) {
	if !a.HasCredential() {
		return nil, missingCredential(a.Name(), "RAPIDAPI_KEY not configured")
	}

	q := a.parser.Parse(ctx, query)
	if q.FreeText == "" {
		return nil, invalidRequest(a.Name(), "empty query")
	}

	flightNumber := q.FlightNumber
	if flightNumber == "" {
		flightNumber = q.FreeText
	}
	return a.searchByNumber(ctx, flightNumber, a.now().UTC())
}

// GetFlight looks up a flight by number for the given date (today when
// unset) and returns the first usable record.
func (a *AeroDataBoxProvider) GetFlight(ctx context.Context, flightNumber string, date *time.Time) (*entity.Flight, error) {
	if !a.HasCredential() {
		return nil, missingCredential(a.Name(), "RAPIDAPI_KEY not configured")
	}

	day := a.now().UTC()
	if date != nil {
		day = *date
	}

	flights, err := a.searchByNumber(ctx, a.parser.NormalizeFlightNumber(flightNumber), day)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return nil, nil
	}
	return &flights[0], nil
}

func (a *AeroDataBoxProvider) searchByNumber(ctx context.Context, flightNumber string, day time.Time) ([]entity.Flight, error) {
	u := a.baseURL + "/flights/number/" + url.PathEscape(flightNumber) + "/" + day.Format("2006-01-02")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, invalidRequest(a.Name(), "building request: "+err.Error())
	}
	req.Header.Set("X-RapidAPI-Key", a.apiKey)
	req.Header.Set("X-RapidAPI-Host", aeroDataBoxHost)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, transportFailure(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(a.Name(), resp.StatusCode)
	}

	var raw []adbFlight
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, malformedResponse(a.Name(), err)
	}

	flights := make([]entity.Flight, 0, len(raw))
	for _, rec := range raw {
		if flight := a.convert(ctx, rec); flight != nil {
			flights = append(flights, *flight)
		}
	}
	return flights, nil
}

func (a *AeroDataBoxProvider) convert(ctx context.Context, rec adbFlight) *entity.Flight {
	if rec.Number == nil || rec.Airline == nil || rec.Airline.Name == nil ||
		rec.Departure == nil || rec.Arrival == nil ||
		rec.Departure.Airport == nil || rec.Arrival.Airport == nil ||
		rec.Departure.Airport.IATA == nil || rec.Arrival.Airport.IATA == nil ||
		rec.Departure.ScheduledTime == nil || rec.Arrival.ScheduledTime == nil ||
		rec.Departure.ScheduledTime.UTC == nil || rec.Arrival.ScheduledTime.UTC == nil {
		a.logger.Debug("Dropping record with missing identity fields")
		return nil
	}

	scheduledDep, okDep := parseFlightTime(*rec.Departure.ScheduledTime.UTC)
	scheduledArr, okArr := parseFlightTime(*rec.Arrival.ScheduledTime.UTC)
	if !okDep || !okArr {
		a.logger.Debug("Dropping record with unparseable schedule")
		return nil
	}

	origin := a.airports.Resolve(ctx, *rec.Departure.Airport.IATA, airportHintsFromADB(rec.Departure.Airport))
	destination := a.airports.Resolve(ctx, *rec.Arrival.Airport.IATA, airportHintsFromADB(rec.Arrival.Airport))

	var actualDep, actualArr *time.Time
	if rec.Departure.ActualTime != nil {
		actualDep = parseOptionalTime(rec.Departure.ActualTime.UTC)
	}
	if rec.Arrival.ActualTime != nil {
		actualArr = parseOptionalTime(rec.Arrival.ActualTime.UTC)
	}

	// The API does not report delay directly; derive it from the actual
	// departure when present.
	var delay *int
	if actualDep != nil {
		d := delayMinutes(*actualDep, scheduledDep)
		delay = &d
	}

	var aircraft *string
	if rec.Aircraft != nil && rec.Aircraft.Model != nil && *rec.Aircraft.Model != "" {
		aircraft = rec.Aircraft.Model
	}

	return &entity.Flight{
		ID:                 entity.NewFlightID(),
		FlightNumber:       *rec.Number,
		Airline:            *rec.Airline.Name,
		Origin:             origin,
		Destination:        destination,
		ScheduledDeparture: scheduledDep,
		ScheduledArrival:   scheduledArr,
		ActualDeparture:    actualDep,
		ActualArrival:      actualArr,
		Status:             MapFlightStatus(stringOrEmpty(rec.Status)),
		DepartureGate:      rec.Departure.Gate,
		DepartureTerminal:  rec.Departure.Terminal,
		ArrivalGate:        rec.Arrival.Gate,
		ArrivalTerminal:    rec.Arrival.Terminal,
		BaggageClaim:       rec.Arrival.BaggageBelt,
		Aircraft:           aircraft,
		Delay:              delay,
	}
}

func airportHintsFromADB(a *adbAirport) AirportHints {
	hints := AirportHints{Name: stringOrEmpty(a.Name)}
	if a.Location != nil {
		hints.Latitude = a.Location.Lat
		hints.Longitude = a.Location.Lon
	}
	return hints
}

// AeroDataBox wire types

type adbFlight struct {
	Number    *string      `json:"number"`
	Airline   *adbAirline  `json:"airline"`
	Departure *adbLeg      `json:"departure"`
	Arrival   *adbLeg      `json:"arrival"`
	Status    *string      `json:"status"`
	Aircraft  *adbAircraft `json:"aircraft"`
}

type adbAirline struct {
	Name *string `json:"name"`
}

type adbLeg struct {
	Airport       *adbAirport `json:"airport"`
	ScheduledTime *adbTime    `json:"scheduledTime"`
	ActualTime    *adbTime    `json:"actualTime"`
	Terminal      *string     `json:"terminal"`
	Gate          *string     `json:"gate"`
	BaggageBelt   *string     `json:"baggageBelt"`
}

type adbAirport struct {
	IATA     *string      `json:"iata"`
	ICAO     *string      `json:"icao"`
	Name     *string      `json:"name"`
	Location *adbLocation `json:"location"`
}

type adbLocation struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type adbTime struct {
	Local *string `json:"local"`
	UTC   *string `json:"utc"`
}

type adbAircraft struct {
	Model *string `json:"model"`
	Reg   *string `json:"reg"`
}
