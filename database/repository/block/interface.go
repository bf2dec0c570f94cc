package blockRepo

import (
	"context"
	"time"

	"slotline/models"
)

// BlockRepository reads the blackout intervals provider tooling maintains.
type BlockRepository interface {
	// FindOverlapping returns blocks overlapping [start, end) whose staff or
	// location scope matches. Empty staffID/locationID skip that scope.
	FindOverlapping(ctx context.Context, staffID, locationID string, start, end time.Time) ([]models.AvailabilityBlock, error)
	CreateBlock(ctx context.Context, block *models.AvailabilityBlock) error
}
