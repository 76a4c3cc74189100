package repository

import (
	"context"
	"strings"
	"time"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormTimezoneRepository implements the TimezoneRepository interface
type GormTimezoneRepository struct {
	db *gorm.DB
}

// NewGormTimezoneRepository creates a new GORM timezone repository
func NewGormTimezoneRepository(db *gorm.DB) repository.TimezoneRepository {
	return &GormTimezoneRepository{
		db: db,
	}
}

// Timezones GORM model for database mapping
type Timezones struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airport_code;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityName    string         `gorm:"column:city_name"`
	CountryName string         `gorm:"column:country_name"`
	TzName      string         `gorm:"column:tz_name"`
	Latitude    float64        `gorm:"column:latitude"`
	Longitude   float64        `gorm:"column:longitude"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Timezones) TableName() string {
	return "m_timezones"
}

// GetByAirportCode finds airport reference data by IATA code
func (r *GormTimezoneRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error) {
	var tz Timezones
	result := r.db.WithContext(ctx).Where("airport_code = ?", strings.ToUpper(code)).First(&tz)

	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.Timezone{
		ID:          tz.ID,
		AirportCode: tz.AirportCode,
		AirportName: tz.AirportName,
		CityName:    tz.CityName,
		CountryName: tz.CountryName,
		TzName:      tz.TzName,
		Latitude:    tz.Latitude,
		Longitude:   tz.Longitude,
		CreatedAt:   tz.CreatedAt,
		UpdatedAt:   tz.UpdatedAt,
		DeletedAt:   tz.DeletedAt,
	}, nil
}
