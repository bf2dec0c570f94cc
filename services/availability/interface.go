package availability

import (
	"context"
	"time"

	blockRepo "slotline/database/repository/block"
	bookingRepo "slotline/database/repository/booking"
	catalogRepo "slotline/database/repository/catalog"
	holdRepo "slotline/database/repository/hold"
	"slotline/models"

	"github.com/go-redis/redis/v8"
)

// AvailabilityService computes bookable slots for a staff member or a whole
// provider ("any staff").
type AvailabilityService interface {
	GetAvailability(ctx context.Context, req AvailabilityRequest) ([]models.Slot, error)
}

// ConflictChecker answers whether a candidate interval is free of confirmed
// bookings, live holds, and blackout blocks. The read-time answer is advisory;
// only the write-time answer (re-checked by hold creation and finalization)
// is trusted for correctness.
type ConflictChecker interface {
	IsIntervalFree(ctx context.Context, scope ConflictScope, start, end time.Time) (bool, error)
}

// ConflictScope narrows what a candidate interval is checked against.
type ConflictScope struct {
	ProviderID string
	StaffID    string // empty = any-staff mode: only provider-scoped holds and location blocks apply
	LocationID string
	// ExcludeBookingID skips one booking's own services, so a reschedule does
	// not conflict with itself.
	ExcludeBookingID string
	// ExcludeHoldID skips one hold, so finalizing a hold does not conflict
	// with the hold being consumed.
	ExcludeHoldID string
}

// AvailabilityRequest are the parameters of one slot listing.
type AvailabilityRequest struct {
	ProviderID       string
	Date             string // "2006-01-02", server-local
	OfferingID       string
	StaffID          string // ignored when AnyStaff is set
	AnyStaff         bool
	LocationID       string
	DurationMinutes  int // 0 = offering duration
	MinNoticeMinutes int // 0 = service default
	MaxAdvanceDays   int // 0 = service default
}

// DefaultAvailabilityService is the production implementation of both
// AvailabilityService and ConflictChecker.
type DefaultAvailabilityService struct {
	Catalog  catalogRepo.CatalogRepository
	Bookings bookingRepo.BookingRepository
	Holds    holdRepo.HoldRepository
	Blocks   blockRepo.BlockRepository

	// Cache, when set, memoizes slot listings for a short TTL. Listings are
	// advisory reads, so brief staleness is acceptable.
	Cache    *redis.Client
	CacheTTL time.Duration

	StepMinutes      int
	MaxAdvanceDays   int
	MinNoticeMinutes int

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAvailabilityService) step() int {
	if s.StepMinutes > 0 {
		return s.StepMinutes
	}
	return 15
}
