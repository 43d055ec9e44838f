package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Paldeepak079/AadharIQ/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// InsightArchive keeps every generated insight for later review.
type InsightArchive interface {
	Record(ctx context.Context, rec models.InsightRecord) error
	History(ctx context.Context, region string, limit int) ([]models.InsightRecord, error)
}

// MongoArchive stores insight records in a MongoDB collection.
type MongoArchive struct {
	coll *mongo.Collection
}

// NewMongoArchive opens the collection and ensures its indexes.
func NewMongoArchive(ctx context.Context, client *mongo.Client, database, collection string) (*MongoArchive, error) {
	coll := client.Database(database).Collection(collection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "region", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("region_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "audience", Value: 1}},
			Options: options.Index().SetName("audience_idx"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating insight indexes: %w", err)
	}
	return &MongoArchive{coll: coll}, nil
}

func (a *MongoArchive) Record(ctx context.Context, rec models.InsightRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, err := a.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("archive insight: %w", err)
	}
	return nil
}

// History returns the newest records first, optionally for one region.
func (a *MongoArchive) History(ctx context.Context, region string, limit int) ([]models.InsightRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	filter := bson.M{}
	if region != "" {
		filter["region"] = region
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := a.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query insight history: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.InsightRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode insight history: %w", err)
	}
	return records, nil
}
