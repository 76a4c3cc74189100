package repository

import (
	"context"
	"encoding/json"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/domain/repository"

	bolt "go.etcd.io/bbolt"
)

var (
	flightsBucket = []byte("user_flights")
	flightsKey    = []byte("all")
)

// BoltFlightStore implements FlightStore on an embedded bbolt database: a
// single bucket holding the JSON-encoded user flight set under one key.
// The default store when no MongoDB is configured.
type BoltFlightStore struct {
	db *bolt.DB
}

// NewBoltFlightStore creates a flight store over an open bbolt database.
func NewBoltFlightStore(db *bolt.DB) (repository.FlightStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(flightsBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltFlightStore{db: db}, nil
}

// LoadUserFlights returns every persisted user flight.
func (s *BoltFlightStore) LoadUserFlights(ctx context.Context) ([]entity.Flight, error) {
	var flights []entity.Flight
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(flightsBucket).Get(flightsKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &flights)
	})
	if err != nil {
		return nil, err
	}
	return flights, nil
}

// SaveUserFlights replaces the persisted set with the given flights.
func (s *BoltFlightStore) SaveUserFlights(ctx context.Context, flights []entity.Flight) error {
	data, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(flightsBucket).Put(flightsKey, data)
	})
}
