package entity

import (
	"time"

	"gorm.io/gorm"
)

// Timezone is a reference-data entity describing an airport's location and
// timezone. Used to enrich airports synthesized from thin provider hints.
type Timezone struct {
	ID          uint
	AirportCode string
	AirportName string
	CityName    string
	CountryName string
	TzName      string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
}
