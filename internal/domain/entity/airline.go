package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline is a reference-data entity mapping an IATA carrier code to the
// airline's display name. Consulted by the query parser when a free-text
// airline name falls outside its built-in table.
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
