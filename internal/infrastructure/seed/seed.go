// Package seed holds the fixed offline dataset: reference airports
// embedded as CSV and a handful of illustrative flights generated relative
// to the current time. Used whenever no live provider is available.
package seed

import (
	_ "embed"
	"strings"
	"time"

	"flightdata-service/internal/domain/entity"

	"github.com/gocarina/gocsv"
)

//go:embed airports.csv
var airportsCSV []byte

type airportRow struct {
	Code      string  `csv:"code"`
	Name      string  `csv:"name"`
	City      string  `csv:"city"`
	Country   string  `csv:"country"`
	Timezone  string  `csv:"timezone"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
}

// Dataset is the parsed seed fixture.
type Dataset struct {
	airports []entity.Airport
	byCode   map[string]entity.Airport
}

// NewDataset parses the embedded airport reference data.
func NewDataset() (*Dataset, error) {
	var rows []airportRow
	if err := gocsv.UnmarshalBytes(airportsCSV, &rows); err != nil {
		return nil, err
	}

	d := &Dataset{
		airports: make([]entity.Airport, 0, len(rows)),
		byCode:   make(map[string]entity.Airport, len(rows)),
	}
	for _, r := range rows {
		airport := entity.Airport{
			Code:      r.Code,
			Name:      r.Name,
			City:      r.City,
			Country:   r.Country,
			Timezone:  r.Timezone,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
		d.airports = append(d.airports, airport)
		d.byCode[strings.ToUpper(r.Code)] = airport
	}
	return d, nil
}

// Airports returns the reference airports.
func (d *Dataset) Airports() []entity.Airport {
	return d.airports
}

// AirportByCode looks up a reference airport by IATA code.
func (d *Dataset) AirportByCode(code string) (entity.Airport, bool) {
	airport, ok := d.byCode[strings.ToUpper(code)]
	return airport, ok
}

// Flights builds the illustrative flight set relative to now. Each call
// produces fresh flight identities; the set covers upcoming, delayed,
// in-air and landed flights so local search has realistic variety.
func (d *Dataset) Flights(now time.Time) []entity.Flight {
	var flights []entity.Flight

	if jfk, ok := d.AirportByCode("JFK"); ok {
		if lax, ok := d.AirportByCode("LAX"); ok {
			dep := now.AddDate(0, 0, 3).Add(8 * time.Hour)
			boarding := dep.Add(-40 * time.Minute)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "AA100",
				Airline:            "American Airlines",
				Origin:             jfk,
				Destination:        lax,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(6 * time.Hour),
				Status:             entity.StatusScheduled,
				DepartureGate:      ptr("B22"),
				DepartureTerminal:  ptr("8"),
				ArrivalGate:        ptr("52A"),
				ArrivalTerminal:    ptr("4"),
				BaggageClaim:       ptr("3"),
				Aircraft:           ptr("Boeing 777-300ER"),
				BoardingTime:       &boarding,
			})
		}
	}

	if lax, ok := d.AirportByCode("LAX"); ok {
		if sfo, ok := d.AirportByCode("SFO"); ok {
			dep := now.AddDate(0, 0, 5).Add(14 * time.Hour)
			boarding := dep.Add(-30 * time.Minute)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "UA555",
				Airline:            "United Airlines",
				Origin:             lax,
				Destination:        sfo,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(90 * time.Minute),
				Status:             entity.StatusScheduled,
				DepartureGate:      ptr("C10"),
				DepartureTerminal:  ptr("7"),
				ArrivalGate:        ptr("3"),
				ArrivalTerminal:    ptr("International"),
				BaggageClaim:       ptr("7"),
				Aircraft:           ptr("Airbus A320"),
				BoardingTime:       &boarding,
			})
		}
	}

	if ord, ok := d.AirportByCode("ORD"); ok {
		if mia, ok := d.AirportByCode("MIA"); ok {
			dep := now.AddDate(0, 0, 1).Add(10 * time.Hour)
			actualDep := dep.Add(90 * time.Minute)
			delay := 90
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "DL200",
				Airline:            "Delta Air Lines",
				Origin:             ord,
				Destination:        mia,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(3 * time.Hour),
				ActualDeparture:    &actualDep,
				Status:             entity.StatusDelayed,
				DepartureGate:      ptr("A15"),
				DepartureTerminal:  ptr("2"),
				ArrivalGate:        ptr("D8"),
				ArrivalTerminal:    ptr("North"),
				BaggageClaim:       ptr("4"),
				Aircraft:           ptr("Boeing 737-800"),
				Delay:              &delay,
			})
		}
	}

	if sfo, ok := d.AirportByCode("SFO"); ok {
		if nrt, ok := d.AirportByCode("NRT"); ok {
			dep := now.Add(-4 * time.Hour)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "NH7",
				Airline:            "ANA",
				Origin:             sfo,
				Destination:        nrt,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(11 * time.Hour),
				ActualDeparture:    &dep,
				Status:             entity.StatusInAir,
				DepartureGate:      ptr("G1"),
				DepartureTerminal:  ptr("International"),
				ArrivalGate:        ptr("24"),
				ArrivalTerminal:    ptr("1"),
				BaggageClaim:       ptr("8"),
				Aircraft:           ptr("Boeing 787-9 Dreamliner"),
			})
		}
	}

	if lhr, ok := d.AirportByCode("LHR"); ok {
		if jfk, ok := d.AirportByCode("JFK"); ok {
			dep := now.AddDate(0, 0, -2).Add(12 * time.Hour)
			arr := dep.Add(8 * time.Hour)
			actualArr := arr.Add(-10 * time.Minute)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "BA117",
				Airline:            "British Airways",
				Origin:             lhr,
				Destination:        jfk,
				ScheduledDeparture: dep,
				ScheduledArrival:   arr,
				ActualDeparture:    &dep,
				ActualArrival:      &actualArr,
				Status:             entity.StatusLanded,
				DepartureGate:      ptr("A12"),
				DepartureTerminal:  ptr("5"),
				ArrivalGate:        ptr("D7"),
				ArrivalTerminal:    ptr("7"),
				BaggageClaim:       ptr("5"),
				Aircraft:           ptr("Airbus A350-1000"),
			})
		}
	}

	if dfw, ok := d.AirportByCode("DFW"); ok {
		if cdg, ok := d.AirportByCode("CDG"); ok {
			dep := now.AddDate(0, 0, 7).Add(18 * time.Hour)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "AF356",
				Airline:            "Air France",
				Origin:             dfw,
				Destination:        cdg,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(10 * time.Hour),
				Status:             entity.StatusScheduled,
				DepartureGate:      ptr("E20"),
				DepartureTerminal:  ptr("D"),
				ArrivalGate:        ptr("2F"),
				ArrivalTerminal:    ptr("2E"),
				BaggageClaim:       ptr("6"),
				Aircraft:           ptr("Boeing 777-200ER"),
			})
		}
	}

	if mia, ok := d.AirportByCode("MIA"); ok {
		if dxb, ok := d.AirportByCode("DXB"); ok {
			dep := now.AddDate(0, 0, 10).Add(22 * time.Hour)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "EK213",
				Airline:            "Emirates",
				Origin:             mia,
				Destination:        dxb,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(14 * time.Hour),
				Status:             entity.StatusScheduled,
				DepartureGate:      ptr("D12"),
				DepartureTerminal:  ptr("South"),
				ArrivalGate:        ptr("B5"),
				ArrivalTerminal:    ptr("3"),
				BaggageClaim:       ptr("12"),
				Aircraft:           ptr("Airbus A380-800"),
			})
		}
	}

	if bog, ok := d.AirportByCode("BOG"); ok {
		if sal, ok := d.AirportByCode("SAL"); ok {
			dep := now.AddDate(0, 0, 2).Add(9 * time.Hour)
			boarding := dep.Add(-35 * time.Minute)
			flights = append(flights, entity.Flight{
				ID:                 entity.NewFlightID(),
				FlightNumber:       "AV118",
				Airline:            "Avianca",
				Origin:             bog,
				Destination:        sal,
				ScheduledDeparture: dep,
				ScheduledArrival:   dep.Add(150 * time.Minute),
				Status:             entity.StatusScheduled,
				DepartureGate:      ptr("A8"),
				DepartureTerminal:  ptr("1"),
				ArrivalGate:        ptr("12"),
				ArrivalTerminal:    ptr("Main"),
				BaggageClaim:       ptr("2"),
				Aircraft:           ptr("Airbus A320"),
				BoardingTime:       &boarding,
			})
		}
	}

	return flights
}

func ptr(s string) *string {
	return &s
}
