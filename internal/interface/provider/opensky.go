package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/pkg/logger"
)

const openSkyBaseURL = "https://opensky-network.org/api"

// liveFlightLimit caps how many state vectors a live snapshot converts.
const liveFlightLimit = 20

// OpenSky state vectors are positional arrays. Fixed position-to-field
// schema:
//
//	0  icao24          string
//	1  callsign        string, space-padded
//	2  origin_country  string
//	3  time_position   int
//	4  last_contact    int
//	5  longitude       float
//	6  latitude        float
//	7  baro_altitude   float, meters
//	8  on_ground       bool
//	9  velocity        float, m/s
//	10 true_track      float, degrees
//	11 vertical_rate   float, m/s
const (
	statePosICAO24 = iota
	statePosCallsign
	statePosOriginCountry
	statePosTimePosition
	statePosLastContact
	statePosLongitude
	statePosLatitude
	statePosBaroAltitude
	statePosOnGround
	statePosVelocity
	statePosTrueTrack
	statePosVerticalRate

	stateVectorMinLen = 12
)

// StateValue is the tagged union for one cell of a state vector: string,
// number, boolean, or null. Exactly one of the pointers is set for non-null
// cells; type probing happens once, at decode time.
type StateValue struct {
	Str  *string
	Num  *float64
	Bool *bool
}

// UnmarshalJSON decodes one heterogeneous cell.
func (v *StateValue) UnmarshalJSON(data []byte) error {
	*v = StateValue{}
	if string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Str = &s
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		v.Bool = &b
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		v.Num = &f
	}
	return nil
}

// AsString returns the string value, if this cell holds one.
func (v StateValue) AsString() (string, bool) {
	if v.Str == nil {
		return "", false
	}
	return *v.Str, true
}

// AsFloat returns the numeric value, if this cell holds one.
func (v StateValue) AsFloat() (float64, bool) {
	if v.Num == nil {
		return 0, false
	}
	return *v.Num, true
}

// AsBool returns the boolean value, if this cell holds one.
func (v StateValue) AsBool() (bool, bool) {
	if v.Bool == nil {
		return false, false
	}
	return *v.Bool, true
}

// OpenSkyProvider reads live state vectors from the OpenSky Network. It
// works anonymously; pass an OAuth2-backed http.Client for the higher
// authenticated rate limits. OpenSky has no flight-number search surface,
// so SearchFlights and GetFlight yield nothing and the adapter's value is
// LiveFlights.
type OpenSkyProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	now        func() time.Time
}

// NewOpenSkyProvider creates an OpenSky adapter. httpClient may be nil for
// anonymous access.
func NewOpenSkyProvider(httpClient *http.Client, log logger.Logger) *OpenSkyProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &OpenSkyProvider{
		baseURL:    openSkyBaseURL,
		httpClient: httpClient,
		logger:     log.With("provider", "opensky"),
		now:        time.Now,
	}
}

func (o *OpenSkyProvider) Name() string { return "opensky" }

// HasCredential always reports true; anonymous access works.
func (o *OpenSkyProvider) HasCredential() bool { return true }

// SearchFlights returns nothing: OpenSky tracks positions, not schedules.
func (o *OpenSkyProvider) SearchFlights(ctx context.Context, query string) ([]entity.Flight, error) {
	return nil, nil
}

// GetFlight returns nothing; OpenSky has no flight-number lookup.
func (o *OpenSkyProvider) GetFlight(ctx context.Context, flightNumber string, date *time.Time) (*entity.Flight, error) {
	return nil, nil
}

// LiveFlights returns currently airborne aircraft as synthetic in-air
// flights. Origin and destination are placeholders built from the current
// position; the point of this snapshot is the callsign and the fact of
// being airborne.
func (o *OpenSkyProvider) LiveFlights(ctx context.Context) ([]entity.Flight, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/states/all", nil)
	if err != nil {
		return nil, invalidRequest(o.Name(), "building request: "+err.Error())
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, transportFailure(o.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(o.Name(), resp.StatusCode)
	}

	var raw openSkyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, malformedResponse(o.Name(), err)
	}

	flights := make([]entity.Flight, 0, liveFlightLimit)
	for _, state := range raw.States {
		if len(flights) >= liveFlightLimit {
			break
		}
		if flight := o.convertState(state); flight != nil {
			flights = append(flights, *flight)
		}
	}
	return flights, nil
}

func (o *OpenSkyProvider) convertState(state []StateValue) *entity.Flight {
	if len(state) < stateVectorMinLen {
		return nil
	}

	callsign, ok := state[statePosCallsign].AsString()
	if !ok {
		return nil
	}
	// OpenSky pads callsigns with spaces.
	callsign = strings.TrimSpace(callsign)
	if callsign == "" {
		return nil
	}

	lat, okLat := state[statePosLatitude].AsFloat()
	lon, okLon := state[statePosLongitude].AsFloat()
	if !okLat || !okLon {
		return nil
	}

	if onGround, ok := state[statePosOnGround].AsBool(); ok && onGround {
		return nil
	}

	country := entity.UnknownField
	if c, ok := state[statePosOriginCountry].AsString(); ok && c != "" {
		country = c
	}

	origin := entity.Airport{
		Code:      "---",
		Name:      entity.UnknownField,
		City:      "In Flight",
		Country:   country,
		Timezone:  entity.DefaultTimezone,
		Latitude:  lat,
		Longitude: lon,
	}
	destination := entity.Airport{
		Code:     "???",
		Name:     "Unknown Destination",
		City:     entity.UnknownField,
		Country:  entity.UnknownField,
		Timezone: entity.DefaultTimezone,
		// Rough forward projection; OpenSky does not carry the destination.
		Latitude:  lat + 5.0,
		Longitude: lon + 5.0,
	}

	now := o.now()
	departed := now.Add(-time.Hour)

	return &entity.Flight{
		ID:                 entity.NewFlightID(),
		FlightNumber:       callsign,
		Airline:            entity.UnknownField,
		Origin:             origin,
		Destination:        destination,
		ScheduledDeparture: departed,
		ScheduledArrival:   now.Add(time.Hour),
		ActualDeparture:    &departed,
		Status:             entity.StatusInAir,
	}
}

type openSkyResponse struct {
	Time   int64          `json:"time"`
	States [][]StateValue `json:"states"`
}

// TokenURL is the OAuth2 client-credentials endpoint for authenticated
// OpenSky access.
const OpenSkyTokenURL = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"
