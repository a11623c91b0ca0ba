// internal/interface/repository/email_repo.go
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

// MongoEmailRepository implements the EmailRepository interface
type MongoEmailRepository struct {
	collection *mongo.Collection
}

// NewMongoEmailRepository creates a new MongoDB email repository
func NewMongoEmailRepository(db *mongo.Database) repository.EmailRepository {
	collection := db.Collection("rawEmails")

	ctx := context.Background()

	emailIDIndex := mongo.IndexModel{
		Keys:    bson.M{"emailId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Window queries filter on account and range over receivedAt.
	windowIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "account", Value: 1},
			{Key: "receivedAt", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		emailIDIndex,
		windowIndex,
	})

	return &MongoEmailRepository{
		collection: collection,
	}
}

// Save upserts an email keyed by its message id, so refetching an
// overlapping window never duplicates the stored batch.
func (r *MongoEmailRepository) Save(ctx context.Context, email *entity.RawEmail) error {
	if email.FetchedAt.IsZero() {
		email.FetchedAt = time.Now().UTC()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"emailId": email.EmailID}, email, opts)
	return err
}

// FindByEmailID finds an email by its message id.
func (r *MongoEmailRepository) FindByEmailID(ctx context.Context, emailID string) (*entity.RawEmail, error) {
	var email entity.RawEmail
	err := r.collection.FindOne(ctx, bson.M{"emailId": emailID}).Decode(&email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

// FindByEmailIDs finds multiple emails by message id (batch operation).
func (r *MongoEmailRepository) FindByEmailIDs(ctx context.Context, emailIDs []string) (map[string]*entity.RawEmail, error) {
	if len(emailIDs) == 0 {
		return make(map[string]*entity.RawEmail), nil
	}

	filter := bson.M{"emailId": bson.M{"$in": emailIDs}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make(map[string]*entity.RawEmail)
	for cursor.Next(ctx) {
		var email entity.RawEmail
		if err := cursor.Decode(&email); err != nil {
			continue
		}
		result[email.EmailID] = &email
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// FindByWindow returns the stored batch for a received-time window,
// oldest first.
func (r *MongoEmailRepository) FindByWindow(ctx context.Context, account string, start, end time.Time) ([]*entity.RawEmail, error) {
	filter := bson.M{
		"receivedAt": bson.M{"$gte": start, "$lt": end},
	}
	if account != "" {
		filter["account"] = account
	}

	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "receivedAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var emails []*entity.RawEmail
	if err := cursor.All(ctx, &emails); err != nil {
		return nil, err
	}

	return emails, nil
}

// GetLastReceived gets the most recently received email for an account.
func (r *MongoEmailRepository) GetLastReceived(ctx context.Context, account string) (*entity.RawEmail, error) {
	filter := bson.M{}
	if account != "" {
		filter["account"] = account
	}

	var email entity.RawEmail
	opts := options.FindOne().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}
