package entity

// Sentinel values used when a data source does not supply a field.
const (
	UnknownField    = "Unknown"
	DefaultTimezone = "UTC"
)

// Airport represents an airport in the canonical model. Airports are value
// types: once constructed they are never mutated, and the code is always
// present and non-empty. Other fields may carry placeholder values when the
// source data was incomplete.
type Airport struct {
	Code      string  `json:"code" bson:"code"`
	Name      string  `json:"name" bson:"name"`
	City      string  `json:"city" bson:"city"`
	Country   string  `json:"country" bson:"country"`
	Timezone  string  `json:"timezone" bson:"timezone"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}
