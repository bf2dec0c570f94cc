package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotline/database"
	"slotline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	offeringColl *mongo.Collection
	staffColl    *mongo.Collection
	locationColl *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &MongoCatalogRepo{
		offeringColl: db.Collection("offerings"),
		staffColl:    db.Collection("staff"),
		locationColl: db.Collection("locations"),
	}
}

func (repo *MongoCatalogRepo) GetOfferingByID(ctx context.Context, offeringID string) (*models.Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offering models.Offering
	if err := repo.offeringColl.FindOne(ctx, bson.M{"id": offeringID}).Decode(&offering); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching offering %s: %w", offeringID, err)
	}
	return &offering, nil
}

func (repo *MongoCatalogRepo) GetStaffByID(ctx context.Context, staffID string) (*models.StaffMember, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var staff models.StaffMember
	if err := repo.staffColl.FindOne(ctx, bson.M{"id": staffID}).Decode(&staff); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching staff %s: %w", staffID, err)
	}
	return &staff, nil
}

func (repo *MongoCatalogRepo) ListActiveStaffByProvider(ctx context.Context, providerID string) ([]models.StaffMember, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Sorted by id so "any staff" tie-breaking is deterministic.
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := repo.staffColl.Find(ctx, bson.M{"provider_id": providerID, "is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing staff for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var staff []models.StaffMember
	for cursor.Next(ctx) {
		var s models.StaffMember
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("error decoding staff member: %w", err)
		}
		staff = append(staff, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return staff, nil
}

func (repo *MongoCatalogRepo) GetLocationByID(ctx context.Context, locationID string) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var location models.Location
	if err := repo.locationColl.FindOne(ctx, bson.M{"id": locationID}).Decode(&location); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching location %s: %w", locationID, err)
	}
	return &location, nil
}

func (repo *MongoCatalogRepo) GetPrimaryLocation(ctx context.Context, providerID string) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var location models.Location
	filter := bson.M{"provider_id": providerID, "is_primary": true}
	if err := repo.locationColl.FindOne(ctx, filter).Decode(&location); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching primary location for provider %s: %w", providerID, err)
	}
	return &location, nil
}
