package hold

import (
	"context"
	"time"

	catalogRepo "slotline/database/repository/catalog"
	holdRepo "slotline/database/repository/hold"
	"slotline/models"
	"slotline/services/availability"
)

// HoldService manages the lifecycle of booking holds: exclusive, short-lived
// claims on an interval while a customer completes checkout.
type HoldService interface {
	CreateHold(ctx context.Context, req CreateHoldRequest) (*models.BookingHold, error)
	// GetHold applies lazy expiry: an active hold past its expiry is reported
	// as HOLD_EXPIRED even before a sweep has flipped it.
	GetHold(ctx context.Context, holdID string) (*models.BookingHold, error)
	// ConsumeHold transitions active → consumed exactly once and releases the
	// hold's lock buckets. Losing the transition race yields HOLD_INACTIVE.
	ConsumeHold(ctx context.Context, holdID string) (*models.BookingHold, error)
	// ExpireStale sweeps holds past their expiry. Advisory only: readers never
	// trust hold_status without checking expires_at.
	ExpireStale(ctx context.Context) (int64, error)
}

// CreateHoldRequest carries the parameters of one hold attempt. Services are
// laid out sequentially from StartAt in the order given.
type CreateHoldRequest struct {
	ProviderID  string
	StaffID     string // empty = any staff: the hold claims the whole provider
	StartAt     time.Time
	OfferingIDs []string

	LocationType string
	LocationID   string
	Address      string

	GuestFingerprintHash string
	// IdentityKey is the rate-limit bucket for this caller (authenticated
	// customer id, or fingerprint/IP for guests).
	IdentityKey string
	Metadata    map[string]string
}

// DefaultHoldService is the production implementation.
type DefaultHoldService struct {
	Catalog  catalogRepo.CatalogRepository
	Holds    holdRepo.HoldRepository
	Conflict availability.ConflictChecker
	Limiter  RateLimiter

	TTL time.Duration // hold lifetime; zero means 7 minutes

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultHoldService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultHoldService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 7 * time.Minute
}
