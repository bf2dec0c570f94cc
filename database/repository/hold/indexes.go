package holdRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the booking_holds and
// hold_locks collections. The lock collection's _id uniqueness needs no index
// of its own; the TTL index only garbage-collects locks whose hold expired
// without ever being swept.
func (repo *MongoHoldRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	holdIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{
				{Key: "hold_status", Value: 1},
				{Key: "expires_at", Value: 1},
			},
			Options: options.Index().SetName("status_expiry_idx"),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "staff_id", Value: 1},
				{Key: "start_at", Value: 1},
				{Key: "end_at", Value: 1},
			},
			Options: options.Index().SetName("scope_interval_idx"),
		},
		{
			Keys:    bson.D{{Key: "guest_fingerprint_hash", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("fingerprint_idx"),
		},
	}
	if _, err := repo.holdColl.Indexes().CreateMany(ctx, holdIndexes); err != nil {
		return fmt.Errorf("failed to create hold indexes: %w", err)
	}

	lockIndexes := []mongo.IndexModel{
		// Stale locks linger for a grace period past hold expiry; readers
		// never trust a lock without checking its owning hold anyway.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(600).SetName("lock_ttl_idx"),
		},
	}
	if _, err := repo.lockColl.Indexes().CreateMany(ctx, lockIndexes); err != nil {
		return fmt.Errorf("failed to create hold lock indexes: %w", err)
	}
	return nil
}
