package utils

import (
	"context"
	"regexp"
	"strings"

	"flightdata-service/internal/domain/repository"
	"flightdata-service/pkg/logger"
)

// FlightQuery is the provider-ready form of a free-text search. Providers
// submit both the primary key and the free-text term when present; the dual
// submission compensates for providers whose free-text search is
// inconsistent.
type FlightQuery struct {
	// FlightNumber is set when the query looks like a flight-number search
	// (contains at least one digit), normalized to IATA style.
	FlightNumber string
	// AirlineCode is set when an airline code could be inferred from a
	// code-free query. Optional enrichment only.
	AirlineCode string
	// FreeText is the trimmed original query, always sent as a fallback.
	FreeText string
}

// IsFlightNumber reports whether the query classified as a flight-number search.
func (q FlightQuery) IsFlightNumber() bool {
	return q.FlightNumber != ""
}

var (
	iataFlightPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]`)
	icaoFlightPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]`)
	airlineCodeToken  = regexp.MustCompile(`^[A-Z]{2,3}$`)
	hasDigit          = regexp.MustCompile(`[0-9]`)
)

// icaoToIATA translates recognized ICAO carrier prefixes to IATA codes.
// Best-effort, not authoritative: unmapped prefixes pass through unchanged.
var icaoToIATA = map[string]string{
	"ASA": "AS", // Alaska
	"DAL": "DL", // Delta
	"UAL": "UA", // United
	"AAL": "AA", // American
}

// airlineNameToCode maps common airline names to IATA codes.
var airlineNameToCode = map[string]string{
	"ALASKA":             "AS",
	"ALASKA AIRLINES":    "AS",
	"DELTA":              "DL",
	"DELTA AIR LINES":    "DL",
	"AMERICAN":           "AA",
	"AMERICAN AIRLINES":  "AA",
	"UNITED":             "UA",
	"UNITED AIRLINES":    "UA",
	"SOUTHWEST":          "WN",
	"SOUTHWEST AIRLINES": "WN",
	"JETBLUE":            "B6",
	"JETBLUE AIRWAYS":    "B6",
}

// QueryParser turns free-text user queries into provider query parameters.
type QueryParser struct {
	airlineRepo repository.AirlineRepository // optional
	logger      logger.Logger
}

// NewQueryParser creates a query parser. airlineRepo may be nil; it extends
// the built-in airline-name table with reference data when configured.
func NewQueryParser(airlineRepo repository.AirlineRepository, logger logger.Logger) *QueryParser {
	return &QueryParser{
		airlineRepo: airlineRepo,
		logger:      logger,
	}
}

// NormalizeFlightNumber trims and upper-cases the input, translating
// ICAO-style prefixes (3 letters + digits) to IATA through the fixed carrier
// table. IATA-style input (2 letters + digits) is returned unchanged, which
// makes normalization idempotent.
func (p *QueryParser) NormalizeFlightNumber(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))

	if iataFlightPattern.MatchString(trimmed) {
		return trimmed
	}

	if icaoFlightPattern.MatchString(trimmed) {
		prefix := trimmed[:3]
		if iata, ok := icaoToIATA[prefix]; ok {
			return iata + trimmed[3:]
		}
	}

	return trimmed
}

// InferAirlineCode tries to turn a free-form query into an airline IATA
// code. A short all-caps token is returned as a candidate code directly;
// otherwise the fixed name table is consulted, then the reference
// repository when one is configured. An empty result means no inference:
// callers treat this as optional enrichment.
func (p *QueryParser) InferAirlineCode(ctx context.Context, text string) string {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return ""
	}

	if airlineCodeToken.MatchString(upper) {
		return upper
	}

	if code, ok := airlineNameToCode[upper]; ok {
		return code
	}

	if p.airlineRepo != nil {
		airline, err := p.airlineRepo.GetByName(ctx, upper)
		if err == nil && airline != nil {
			p.logger.Debug("Airline code resolved from reference data", "name", upper, "code", airline.Code)
			return airline.Code
		}
	}

	return ""
}

// Parse classifies a raw query. A query containing at least one digit is a
// flight-number search; anything else is an airline/free-text search.
func (p *QueryParser) Parse(ctx context.Context, raw string) FlightQuery {
	trimmed := strings.TrimSpace(raw)
	q := FlightQuery{FreeText: trimmed}

	if trimmed == "" {
		return q
	}

	if hasDigit.MatchString(trimmed) {
		q.FlightNumber = p.NormalizeFlightNumber(trimmed)
		return q
	}

	q.AirlineCode = p.InferAirlineCode(ctx, trimmed)
	return q
}
