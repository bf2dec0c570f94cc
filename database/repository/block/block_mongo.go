package blockRepo

import (
	"context"
	"fmt"
	"time"

	"slotline/database"
	"slotline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBlockRepo implements BlockRepository using MongoDB.
type MongoBlockRepo struct {
	blockColl *mongo.Collection
}

// NewMongoBlockRepo constructs a new instance of MongoBlockRepo.
func NewMongoBlockRepo() BlockRepository {
	return &MongoBlockRepo{
		blockColl: database.DB().Collection("availability_blocks"),
	}
}

func (repo *MongoBlockRepo) FindOverlapping(ctx context.Context, staffID, locationID string, start, end time.Time) ([]models.AvailabilityBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var scope bson.A
	if staffID != "" {
		scope = append(scope, bson.M{"staff_id": staffID})
	}
	if locationID != "" {
		scope = append(scope, bson.M{"location_id": locationID})
	}
	if len(scope) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"start_at": bson.M{"$lt": end},
		"end_at":   bson.M{"$gt": start},
		"$or":      scope,
	}
	cursor, err := repo.blockColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.AvailabilityBlock
	for cursor.Next(ctx) {
		var b models.AvailabilityBlock
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding availability block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return blocks, nil
}

func (repo *MongoBlockRepo) CreateBlock(ctx context.Context, block *models.AvailabilityBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.blockColl.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("error creating availability block: %w", err)
	}
	return nil
}
