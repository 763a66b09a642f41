package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/rakelog/internal/domain/models"
)

const (
	submissionsCollection = "submission_logs"
	summariesCollection   = "daily_summaries"
)

// Repository defines the audit and summary storage used by the services.
type Repository interface {
	SaveSubmissionLog(ctx context.Context, log models.SubmissionLog) error
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// SaveSubmissionLog records one submission attempt.
func (r *MongoDBRepository) SaveSubmissionLog(ctx context.Context, log models.SubmissionLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	collection := r.client.Database(r.dbName).Collection(submissionsCollection)
	if _, err := collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to insert submission log: %w", err)
	}
	return nil
}

// SaveDailySummary upserts the summary for its day so reruns of the job do not duplicate it.
func (r *MongoDBRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	collection := r.client.Database(r.dbName).Collection(summariesCollection)
	_, err := collection.ReplaceOne(ctx,
		bson.M{"date": summary.Date},
		summary,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
