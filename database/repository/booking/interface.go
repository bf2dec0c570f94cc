package bookingRepo

import (
	"context"
	"time"

	"slotline/models"
)

// BookingRepository persists confirmed bookings and answers the overlap
// queries the conflict checker runs against them.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// FindOverlappingServices returns service lines of conflict-set bookings
	// whose blocked interval overlaps [start, end) for the given staff member.
	// excludeBookingID, when non-empty, skips that booking (reschedule checks
	// a booking against everyone but itself).
	FindOverlappingServices(ctx context.Context, staffID string, start, end time.Time, excludeBookingID string) ([]models.BookingService, error)
	// UpdateBookingServices replaces the service lines of a booking after a
	// reschedule.
	UpdateBookingServices(ctx context.Context, bookingID string, services []models.BookingService) error
	// UpdateBookingStatus flips status conditionally; false means the booking
	// was not in fromStatus (the caller lost the race or the transition is
	// invalid).
	UpdateBookingStatus(ctx context.Context, bookingID, fromStatus, toStatus string) (bool, error)
	EnsureIndexes() error
}
