package repository

import (
	"context"

	"flightdata-service/internal/domain/entity"
)

// TimezoneRepository resolves airport reference data by IATA code.
type TimezoneRepository interface {
	GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error)
}
