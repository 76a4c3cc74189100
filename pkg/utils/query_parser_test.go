package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"flightdata-service/pkg/logger"
)

func newTestParser() *QueryParser {
	return NewQueryParser(nil, logger.NewNopLogger())
}

func TestNormalizeFlightNumberICAOPrefix(t *testing.T) {
	p := newTestParser()

	assert.Equal(t, "AS103", p.NormalizeFlightNumber("ASA103"))
	assert.Equal(t, "DL200", p.NormalizeFlightNumber("DAL200"))
	assert.Equal(t, "UA555", p.NormalizeFlightNumber("ual555"))
	assert.Equal(t, "AA100", p.NormalizeFlightNumber(" aal100 "))
}

func TestNormalizeFlightNumberIsIdempotent(t *testing.T) {
	p := newTestParser()

	once := p.NormalizeFlightNumber("ASA103")
	assert.Equal(t, once, p.NormalizeFlightNumber(once))
}

func TestNormalizeFlightNumberUnknownPrefixPassesThrough(t *testing.T) {
	p := newTestParser()

	assert.Equal(t, "ZZZ999", p.NormalizeFlightNumber("zzz999"))
}

func TestNormalizeFlightNumberIATAUnchanged(t *testing.T) {
	p := newTestParser()

	assert.Equal(t, "AA100", p.NormalizeFlightNumber("AA100"))
}

func TestInferAirlineCode(t *testing.T) {
	p := newTestParser()
	ctx := context.Background()

	assert.Equal(t, "DL", p.InferAirlineCode(ctx, "delta"))
	assert.Equal(t, "AS", p.InferAirlineCode(ctx, "Alaska Airlines"))
	assert.Equal(t, "UA", p.InferAirlineCode(ctx, "UA"))
	assert.Equal(t, "", p.InferAirlineCode(ctx, "some obscure carrier"))
	assert.Equal(t, "", p.InferAirlineCode(ctx, ""))
}

func TestParseClassifiesByDigits(t *testing.T) {
	p := newTestParser()
	ctx := context.Background()

	q := p.Parse(ctx, "asa103")
	assert.True(t, q.IsFlightNumber())
	assert.Equal(t, "AS103", q.FlightNumber)
	assert.Equal(t, "asa103", q.FreeText)

	q = p.Parse(ctx, "Delta")
	assert.False(t, q.IsFlightNumber())
	assert.Equal(t, "DL", q.AirlineCode)
	assert.Equal(t, "Delta", q.FreeText)

	q = p.Parse(ctx, "  ")
	assert.False(t, q.IsFlightNumber())
	assert.Equal(t, "", q.FreeText)
}
