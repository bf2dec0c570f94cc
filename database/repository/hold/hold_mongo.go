package holdRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotline/database"
	"slotline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoHoldRepo implements HoldRepository using MongoDB.
type MongoHoldRepo struct {
	holdColl *mongo.Collection
	lockColl *mongo.Collection
}

// NewMongoHoldRepo constructs a new instance of MongoHoldRepo.
func NewMongoHoldRepo() HoldRepository {
	db := database.DB()
	return &MongoHoldRepo{
		holdColl: db.Collection("booking_holds"),
		lockColl: db.Collection("hold_locks"),
	}
}

// CreateHoldWithLocks inserts the hold and its lock documents in a single
// transaction. The unique _id index on hold_locks is the race-safety
// backstop: when two requests pass the application-level checks for the same
// interval, exactly one insert commits and the other aborts with ErrLockTaken.
func (repo *MongoHoldRepo) CreateHoldWithLocks(ctx context.Context, hold *models.BookingHold, locks []models.HoldLock) error {
	client := repo.holdColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if len(locks) > 0 {
			docs := make([]interface{}, 0, len(locks))
			for _, l := range locks {
				docs = append(docs, l)
			}
			if _, err := repo.lockColl.InsertMany(sc, docs); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return ErrLockTaken
				}
				return fmt.Errorf("insert hold locks failed: %w", err)
			}
		}
		if _, err := repo.holdColl.InsertOne(sc, hold); err != nil {
			return fmt.Errorf("insert hold failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrLockTaken) {
			return ErrLockTaken
		}
		return fmt.Errorf("hold transaction failed: %w", err)
	}

	return nil
}

func (repo *MongoHoldRepo) GetHoldByID(ctx context.Context, holdID string) (*models.BookingHold, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hold models.BookingHold
	if err := repo.holdColl.FindOne(ctx, bson.M{"id": holdID}).Decode(&hold); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching hold %s: %w", holdID, err)
	}
	return &hold, nil
}

func (repo *MongoHoldRepo) GetLock(ctx context.Context, key string) (*models.HoldLock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lock models.HoldLock
	if err := repo.lockColl.FindOne(ctx, bson.M{"_id": key}).Decode(&lock); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching hold lock %s: %w", key, err)
	}
	return &lock, nil
}

func (repo *MongoHoldRepo) DeleteLocks(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.lockColl.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}}); err != nil {
		return fmt.Errorf("error deleting hold locks: %w", err)
	}
	return nil
}

func (repo *MongoHoldRepo) FindOverlapping(ctx context.Context, providerID, staffID string, start, end, now time.Time) ([]models.BookingHold, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A hold conflicts when pinned to the same staff member, or when it is an
	// any-staff hold on the same provider.
	scope := bson.A{
		bson.M{"staff_id": "", "provider_id": providerID},
	}
	if staffID != "" {
		scope = append(scope, bson.M{"staff_id": staffID})
	}

	filter := bson.M{
		"hold_status": models.HoldStatusActive,
		"expires_at":  bson.M{"$gt": now},
		"start_at":    bson.M{"$lt": end},
		"end_at":      bson.M{"$gt": start},
		"$or":         scope,
	}

	cursor, err := repo.holdColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping holds: %w", err)
	}
	defer cursor.Close(ctx)

	var holds []models.BookingHold
	for cursor.Next(ctx) {
		var h models.BookingHold
		if err := cursor.Decode(&h); err != nil {
			return nil, fmt.Errorf("error decoding hold: %w", err)
		}
		holds = append(holds, h)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return holds, nil
}

func (repo *MongoHoldRepo) FindActiveByFingerprint(ctx context.Context, fingerprintHash string, now time.Time) (*models.BookingHold, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"guest_fingerprint_hash": fingerprintHash,
		"hold_status":            models.HoldStatusActive,
		"expires_at":             bson.M{"$gt": now},
	}
	var hold models.BookingHold
	if err := repo.holdColl.FindOne(ctx, filter).Decode(&hold); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching hold by fingerprint: %w", err)
	}
	return &hold, nil
}

func (repo *MongoHoldRepo) ConsumeHold(ctx context.Context, holdID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": holdID, "hold_status": models.HoldStatusActive}
	update := bson.M{"$set": bson.M{"hold_status": models.HoldStatusConsumed}}

	res, err := repo.holdColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error consuming hold %s: %w", holdID, err)
	}
	return res.ModifiedCount > 0, nil
}

func (repo *MongoHoldRepo) ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"hold_status": models.HoldStatusActive,
		"expires_at":  bson.M{"$lte": now},
	}
	cursor, err := repo.holdColl.Find(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error finding stale holds: %w", err)
	}
	defer cursor.Close(ctx)

	var flipped int64
	for cursor.Next(ctx) {
		var h models.BookingHold
		if err := cursor.Decode(&h); err != nil {
			return flipped, fmt.Errorf("error decoding stale hold: %w", err)
		}
		res, err := repo.holdColl.UpdateOne(ctx,
			bson.M{"id": h.ID, "hold_status": models.HoldStatusActive},
			bson.M{"$set": bson.M{"hold_status": models.HoldStatusExpired}})
		if err != nil {
			return flipped, fmt.Errorf("error expiring hold %s: %w", h.ID, err)
		}
		if res.ModifiedCount > 0 {
			if err := repo.DeleteLocks(ctx, h.LockKeys); err != nil {
				return flipped, err
			}
			flipped++
		}
	}
	if err := cursor.Err(); err != nil {
		return flipped, fmt.Errorf("cursor error: %w", err)
	}
	return flipped, nil
}
