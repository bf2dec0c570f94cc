package availability

import (
	"context"
	"time"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// IsIntervalFree checks the candidate interval against confirmed bookings,
// live holds and availability blocks. Booking intervals are buffer-inclusive
// on the stored side (blocked_until), so the caller passes the
// buffer-inclusive end of the candidate too.
func (s *DefaultAvailabilityService) IsIntervalFree(ctx context.Context, scope ConflictScope, start, end time.Time) (bool, error) {
	if scope.StaffID != "" {
		services, err := s.Bookings.FindOverlappingServices(ctx, scope.StaffID, start, end, scope.ExcludeBookingID)
		if err != nil {
			return false, err
		}
		if len(services) > 0 {
			return false, nil
		}
	}

	holds, err := s.Holds.FindOverlapping(ctx, scope.ProviderID, scope.StaffID, start, end, s.now())
	if err != nil {
		return false, err
	}
	for _, h := range holds {
		if h.ID != scope.ExcludeHoldID {
			return false, nil
		}
	}

	blocks, err := s.Blocks.FindOverlapping(ctx, scope.StaffID, scope.LocationID, start, end)
	if err != nil {
		return false, err
	}
	return len(blocks) == 0, nil
}
