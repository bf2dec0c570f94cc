package requestRepo

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

// MongoRequestRepo implements RequestRepository using MongoDB.
type MongoRequestRepo struct {
	requestColl *mongo.Collection
}

// NewMongoRequestRepo constructs a new instance of MongoRequestRepo.
func NewMongoRequestRepo() RequestRepository {
	return &MongoRequestRepo{
		requestColl: database.DB().Collection("on_demand_requests"),
	}
}

func (repo *MongoRequestRepo) CreateRequest(ctx context.Context, req *models.OnDemandRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.requestColl.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("error creating on-demand request: %w", err)
	}
	return nil
}

func (repo *MongoRequestRepo) GetRequestByID(ctx context.Context, requestID string) (*models.OnDemandRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.OnDemandRequest
	if err := repo.requestColl.FindOne(ctx, bson.M{"id": requestID}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching request %s: %w", requestID, err)
	}
	return &req, nil
}

func (repo *MongoRequestRepo) MarkAccepted(ctx context.Context, requestID string, now time.Time) (bool, error) {
	return repo.transition(ctx, requestID, now, bson.M{
		"status":     models.RequestStatusAccepted,
		"updated_at": now,
	})
}

func (repo *MongoRequestRepo) MarkDeclined(ctx context.Context, requestID, reason string, now time.Time) (bool, error) {
	return repo.transition(ctx, requestID, now, bson.M{
		"status":         models.RequestStatusDeclined,
		"decline_reason": reason,
		"updated_at":     now,
	})
}

// transition performs the atomicity-critical conditional update: only a
// still-pending, unexpired request can move to a terminal state, and only one
// caller can win.
func (repo *MongoRequestRepo) transition(ctx context.Context, requestID string, now time.Time, set bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":         requestID,
		"status":     models.RequestStatusRequested,
		"expires_at": bson.M{"$gt": now},
	}
	res, err := repo.requestColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error transitioning request %s: %w", requestID, err)
	}
	return res.ModifiedCount > 0, nil
}

func (repo *MongoRequestRepo) LinkBooking(ctx context.Context, requestID, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"booking_id": bookingID, "updated_at": time.Now()}}
	res, err := repo.requestColl.UpdateOne(ctx, bson.M{"id": requestID}, update)
	if err != nil {
		return fmt.Errorf("error linking booking to request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("request %s not found", requestID)
	}
	return nil
}
