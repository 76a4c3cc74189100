package repository

import (
	"context"

	"flightdata-service/internal/domain/entity"
)

// FlightStore persists user-authored flights. The aggregation core only
// needs the full set back; keying and storage mechanics belong to the
// implementation.
type FlightStore interface {
	LoadUserFlights(ctx context.Context) ([]entity.Flight, error)
	SaveUserFlights(ctx context.Context, flights []entity.Flight) error
}
