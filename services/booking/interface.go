package booking

import (
	"context"
	"time"

	bookingRepo "slotline/database/repository/booking"
	catalogRepo "slotline/database/repository/catalog"
	requestRepo "slotline/database/repository/request"
	"slotline/models"
	"slotline/services/availability"
	holdSvc "slotline/services/hold"
	"slotline/services/notification"
)

// BookingService finalizes holds and on-demand requests into confirmed
// bookings, and handles the post-confirmation transitions.
type BookingService interface {
	// FinalizeFromHold consumes a live hold and creates the confirmed booking
	// from the hold's frozen service snapshot.
	FinalizeFromHold(ctx context.Context, holdID, customerID string) (*models.Booking, error)

	// CreateRequest opens an on-demand request that the provider must accept
	// within the request TTL.
	CreateRequest(ctx context.Context, draft models.BookingDraft) (*models.OnDemandRequest, error)
	// AcceptRequest flips requested → accepted and creates the booking. The
	// flip is the commit point: losing it yields ALREADY_HANDLED_OR_EXPIRED.
	AcceptRequest(ctx context.Context, requestID string) (*models.Booking, error)
	// DeclineRequest flips requested → declined. Declining an already declined
	// request is a no-op.
	DeclineRequest(ctx context.Context, requestID, reason string) error

	// RescheduleBooking moves all service lines of a confirmed booking to a
	// new start, preserving the sequential layout.
	RescheduleBooking(ctx context.Context, bookingID string, newStartAt time.Time) (*models.Booking, error)
	// CancelBooking flips confirmed → cancelled; cancelling twice is a no-op.
	CancelBooking(ctx context.Context, bookingID string) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Requests requestRepo.RequestRepository
	Catalog  catalogRepo.CatalogRepository
	Holds    holdSvc.HoldService
	Conflict availability.ConflictChecker
	Notifier notification.Notifier

	RequestTTL time.Duration // on-demand request lifetime; zero means 5 minutes

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) requestTTL() time.Duration {
	if s.RequestTTL > 0 {
		return s.RequestTTL
	}
	return 5 * time.Minute
}

func (s *DefaultBookingService) notify(ctx context.Context, intent notification.Intent) {
	if s.Notifier != nil {
		s.Notifier.Enqueue(ctx, intent)
	}
}
