package provider

import (
	"context"
	"time"

	"flightdata-service/internal/domain/entity"
)

// Provider is the interface for all external flight-data sources. The
// orchestrator holds implementers of this interface and never branches on
// concrete provider identity.
type Provider interface {
	// Name returns the provider name for logging and metrics.
	Name() string

	// SearchFlights queries the provider with a free-text query and returns
	// canonical flights. Failures carry a *Error with the provider's error
	// kind.
	SearchFlights(ctx context.Context, query string) ([]entity.Flight, error)

	// GetFlight looks up a single flight by flight number, optionally
	// scoped to a date. A clean miss returns (nil, nil).
	GetFlight(ctx context.Context, flightNumber string, date *time.Time) (*entity.Flight, error)

	// HasCredential reports whether the provider has the auth material it
	// needs. Uncredentialed providers are never invoked.
	HasCredential() bool
}
