package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{
		bookingColl: database.DB().Collection("bookings"),
	}
}

func (repo *MongoBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) FindOverlappingServices(ctx context.Context, staffID string, start, end time.Time, excludeBookingID string) ([]models.BookingService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Half-open overlap: scheduled_start_at < end AND blocked_until > start.
	filter := bson.M{
		"status": bson.M{"$nin": bson.A{models.BookingStatusCancelled, models.BookingStatusNoShow}},
		"services": bson.M{
			"$elemMatch": bson.M{
				"staff_id":           staffID,
				"scheduled_start_at": bson.M{"$lt": end},
				"blocked_until":      bson.M{"$gt": start},
			},
		},
	}
	if excludeBookingID != "" {
		filter["id"] = bson.M{"$ne": excludeBookingID}
	}

	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var overlapping []models.BookingService
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		// The elemMatch only guarantees one matching element; re-filter so
		// every returned line actually overlaps.
		for _, svc := range booking.Services {
			if svc.StaffID == staffID && svc.ScheduledStartAt.Before(end) && svc.BlockedUntil.After(start) {
				overlapping = append(overlapping, svc)
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return overlapping, nil
}

func (repo *MongoBookingRepo) UpdateBookingServices(ctx context.Context, bookingID string, services []models.BookingService) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"services": services, "updated_at": time.Now()}}
	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": bookingID}, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s services: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	return nil
}

// UpdateBookingStatus performs a conditional status transition. An empty
// fromStatus matches any status that still occupies the conflict set.
func (repo *MongoBookingRepo) UpdateBookingStatus(ctx context.Context, bookingID, fromStatus, toStatus string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	if fromStatus != "" {
		filter["status"] = fromStatus
	} else {
		filter["status"] = bson.M{"$nin": bson.A{models.BookingStatusCancelled, models.BookingStatusNoShow}}
	}
	update := bson.M{"$set": bson.M{"status": toStatus, "updated_at": time.Now()}}

	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error updating booking %s status: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}
