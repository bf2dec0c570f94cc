package holdRepo

import (
	"context"
	"errors"
	"time"

	"slotline/models"
)

// ErrLockTaken is returned by CreateHoldWithLocks when another hold already
// owns one of the requested lock buckets. The caller decides whether the
// owning hold is still live before treating it as a business conflict.
var ErrLockTaken = errors.New("hold lock bucket already taken")

// HoldRepository persists booking holds together with the lock documents that
// stand in for a database exclusion constraint: hold and locks are written in
// one transaction, and a duplicate lock key aborts the whole insert.
type HoldRepository interface {
	CreateHoldWithLocks(ctx context.Context, hold *models.BookingHold, locks []models.HoldLock) error
	GetHoldByID(ctx context.Context, holdID string) (*models.BookingHold, error)
	GetLock(ctx context.Context, key string) (*models.HoldLock, error)
	DeleteLocks(ctx context.Context, keys []string) error
	// FindOverlapping returns live holds overlapping [start, end) whose scope
	// matches the staff member or, for any-staff holds, the provider.
	FindOverlapping(ctx context.Context, providerID, staffID string, start, end, now time.Time) ([]models.BookingHold, error)
	FindActiveByFingerprint(ctx context.Context, fingerprintHash string, now time.Time) (*models.BookingHold, error)
	// ConsumeHold flips active → consumed; false means the hold was already
	// consumed or expired by a sweep.
	ConsumeHold(ctx context.Context, holdID string) (bool, error)
	// ExpireStaleHolds is the advisory sweep: it flips active holds past their
	// expiry and removes their lock documents. Correctness never depends on it.
	ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes() error
}
