package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
)

// MongoFlightRecordRepository implements FlightRecordRepository
type MongoFlightRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightRecordRepository creates a new flight record repository
func NewMongoFlightRecordRepository(db *mongo.Database) repository.FlightRecordRepository {
	collection := db.Collection("flightRecords")

	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"dedupKey": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	departureIndex := mongo.IndexModel{
		Keys: bson.M{"departureTime": 1},
	}
	collection.Indexes().CreateOne(ctx, departureIndex)

	return &MongoFlightRecordRepository{
		collection: collection,
	}
}

// FindByDedupKey finds a flight record by its dedup key.
func (r *MongoFlightRecordRepository) FindByDedupKey(ctx context.Context, key string) (*entity.FlightRecord, error) {
	var record entity.FlightRecord
	err := r.collection.FindOne(ctx, bson.M{"dedupKey": key}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Upsert creates or updates a flight record keyed by its dedup key, so
// incremental runs extend the stored history without duplicating it.
func (r *MongoFlightRecordRepository) Upsert(ctx context.Context, record *entity.FlightRecord) error {
	record.UpdatedAt = time.Now().UTC()
	if record.DedupKey == "" {
		record.DedupKey = record.Key()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"dedupKey": record.DedupKey}, record, opts)
	return err
}

// FindAll returns the stored history ordered by departure time.
func (r *MongoFlightRecordRepository) FindAll(ctx context.Context) ([]*entity.FlightRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Sort: bson.D{{Key: "departureTime", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.FlightRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
