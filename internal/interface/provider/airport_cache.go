package provider

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/pkg/metrics"
)

// AirportHints carries whatever airport detail a provider record offered.
// Absent fields default to sentinel values on first resolution.
type AirportHints struct {
	Name      string
	City      string
	Country   string
	Timezone  string
	Latitude  *float64
	Longitude *float64
}

// ReferenceLookup resolves an airport code against reference data (seed
// fixtures or a timezone repository) before the cache synthesizes one from
// provider hints.
type ReferenceLookup func(ctx context.Context, code string) (entity.Airport, bool)

// AirportCache memoizes airport resolution per adapter instance. The first
// resolution for a code constructs the Airport; every later resolution
// returns that same value even when the hints differ, so all flights an
// adapter produces in one session reference a consistent airport. The cost
// is that initial bad data is never corrected.
type AirportCache struct {
	mu       sync.Mutex
	airports map[string]entity.Airport
	ref      ReferenceLookup  // optional
	metrics  *metrics.Metrics // optional
}

// NewAirportCache creates an empty cache. Both arguments may be nil.
func NewAirportCache(ref ReferenceLookup, m *metrics.Metrics) *AirportCache {
	return &AirportCache{
		airports: make(map[string]entity.Airport),
		ref:      ref,
		metrics:  m,
	}
}

// Resolve returns the airport for a code, constructing and caching it on
// first sighting.
func (c *AirportCache) Resolve(ctx context.Context, code string, hints AirportHints) entity.Airport {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.airports[code]; ok {
		c.countLookup("hit")
		return cached
	}

	if c.ref != nil {
		if airport, ok := c.ref(ctx, code); ok {
			c.airports[code] = airport
			c.countLookup("reference")
			return airport
		}
	}

	airport := buildAirport(code, hints)
	c.airports[code] = airport
	c.countLookup("miss")
	return airport
}

func (c *AirportCache) countLookup(result string) {
	if c.metrics != nil {
		c.metrics.AirportCacheLookups.WithLabelValues(result).Inc()
	}
}

func buildAirport(code string, hints AirportHints) entity.Airport {
	airport := entity.Airport{
		Code:     code,
		Name:     hints.Name,
		City:     hints.City,
		Country:  hints.Country,
		Timezone: hints.Timezone,
	}

	if airport.Name == "" {
		airport.Name = code
	}
	if airport.City == "" {
		airport.City = extractCity(hints.Name)
	}
	if airport.Country == "" {
		airport.Country = entity.UnknownField
	}
	if airport.Timezone == "" {
		airport.Timezone = entity.DefaultTimezone
	}
	if hints.Latitude != nil {
		airport.Latitude = *hints.Latitude
	}
	if hints.Longitude != nil {
		airport.Longitude = *hints.Longitude
	}

	return airport
}

var cityPrefixPattern = regexp.MustCompile(`^[A-Za-z\s]+`)

// extractCity guesses a city from an airport name by taking its leading
// run of letters and spaces, e.g. "Paris-Charles de Gaulle" yields "Paris".
func extractCity(airportName string) string {
	if airportName == "" {
		return entity.UnknownField
	}
	if match := cityPrefixPattern.FindString(airportName); match != "" {
		return strings.TrimSpace(match)
	}
	return airportName
}
