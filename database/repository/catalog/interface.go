package catalogRepo

import (
	"context"

	"slotline/models"
)

// CatalogRepository exposes the read-only collaborator data this subsystem
// needs: offerings, staff, and locations with their working hours. Writes to
// these collections belong to provider-settings tooling, not here.
type CatalogRepository interface {
	GetOfferingByID(ctx context.Context, offeringID string) (*models.Offering, error)
	GetStaffByID(ctx context.Context, staffID string) (*models.StaffMember, error)
	ListActiveStaffByProvider(ctx context.Context, providerID string) ([]models.StaffMember, error)
	GetLocationByID(ctx context.Context, locationID string) (*models.Location, error)
	GetPrimaryLocation(ctx context.Context, providerID string) (*models.Location, error)
}
