package repository

import (
	"context"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightStore implements FlightStore on a MongoDB collection. The
// stored documents are the canonical Flight encoding; the whole user set is
// replaced on save, matching the store contract.
type MongoFlightStore struct {
	collection *mongo.Collection
}

// NewMongoFlightStore creates a flight store over the user_flights
// collection.
func NewMongoFlightStore(db *mongo.Database) repository.FlightStore {
	collection := db.Collection("user_flights")

	// Index on flightNumber for the exact-match fallback path.
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.M{"flightNumber": 1},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoFlightStore{
		collection: collection,
	}
}

// LoadUserFlights returns every persisted user flight.
func (s *MongoFlightStore) LoadUserFlights(ctx context.Context) ([]entity.Flight, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flights []entity.Flight
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// SaveUserFlights replaces the persisted set with the given flights.
func (s *MongoFlightStore) SaveUserFlights(ctx context.Context, flights []entity.Flight) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(flights) == 0 {
		return nil
	}

	docs := make([]interface{}, len(flights))
	for i, f := range flights {
		docs[i] = f
	}
	_, err := s.collection.InsertMany(ctx, docs)
	return err
}
