package requestRepo

import (
	"context"
	"time"

	"slotline/models"
)

// RequestRepository persists on-demand requests. The accept/decline
// transitions are conditional updates: the filter carries the expected prior
// state, and zero matched rows means the caller lost the race.
type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.OnDemandRequest) error
	GetRequestByID(ctx context.Context, requestID string) (*models.OnDemandRequest, error)
	// MarkAccepted flips requested → accepted iff the request has not expired.
	MarkAccepted(ctx context.Context, requestID string, now time.Time) (bool, error)
	// MarkDeclined flips requested → declined iff the request has not expired.
	MarkDeclined(ctx context.Context, requestID, reason string, now time.Time) (bool, error)
	LinkBooking(ctx context.Context, requestID, bookingID string) error
}
