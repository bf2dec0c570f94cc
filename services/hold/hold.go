package hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	holdRepo "slotline/database/repository/hold"
	"slotline/models"
	"slotline/services/availability"
	"slotline/utils"

	"go.uber.org/zap"
)

// lockBucketSize is the granularity of the exclusion lock documents. Two live
// holds overlapping on the same scope always share at least one bucket.
const lockBucketSize = 15 * time.Minute

// CreateHold validates the request, lays the services out on the timeline,
// re-checks conflicts at write time and inserts the hold together with its
// lock documents in one transaction. A duplicate lock bucket owned by a live
// hold is a business conflict; a stale owner is cleaned up and the insert is
// retried once.
func (s *DefaultHoldService) CreateHold(ctx context.Context, req CreateHoldRequest) (*models.BookingHold, error) {
	logger := utils.GetLogger()
	now := s.now()

	if s.Limiter != nil && req.IdentityKey != "" {
		allowed, err := s.Limiter.Check(ctx, req.IdentityKey)
		if err != nil {
			return nil, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return nil, models.NewRateLimitError("too many hold attempts, slow down")
		}
	}

	offerings, err := s.validateRequest(ctx, &req, now)
	if err != nil {
		return nil, err
	}

	if req.GuestFingerprintHash != "" {
		existing, err := s.Holds.FindActiveByFingerprint(ctx, req.GuestFingerprintHash, now)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewActiveHoldError("an active hold already exists for this device")
		}
	}

	// An any-staff request is pinned to a concrete staff member here, so the
	// booking it becomes stays inside the staff-scoped conflict set.
	staffID := req.StaffID
	if staffID == "" {
		staffID, err = s.pickAnyStaff(ctx, req, offerings)
		if err != nil {
			return nil, err
		}
	}

	staffIDs := make([]string, len(offerings))
	for i := range staffIDs {
		staffIDs[i] = staffID
	}
	planned, endAt := availability.LayoutSequential(req.StartAt, offerings, staffIDs)

	for _, p := range planned {
		scope := availability.ConflictScope{
			ProviderID: req.ProviderID,
			StaffID:    p.StaffID,
			LocationID: req.LocationID,
		}
		free, err := s.Conflict.IsIntervalFree(ctx, scope, p.StartAt, p.BlockedUntil)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, models.NewConflictError("the requested time is no longer available")
		}
	}

	hold := &models.BookingHold{
		ID:                   uuid.NewString(),
		ProviderID:           req.ProviderID,
		StaffID:              staffID,
		Services:             snapshotServices(planned, req.LocationType),
		StartAt:              req.StartAt,
		EndAt:                endAt,
		HoldStatus:           models.HoldStatusActive,
		ExpiresAt:            now.Add(s.ttl()),
		GuestFingerprintHash: req.GuestFingerprintHash,
		LocationType:         req.LocationType,
		LocationID:           req.LocationID,
		Address:              req.Address,
		Metadata:             req.Metadata,
		CreatedAt:            now,
	}
	hold.LockKeys = lockKeysFor(hold.ScopeKey(), req.StartAt, endAt)
	locks := buildLocks(hold)

	err = s.Holds.CreateHoldWithLocks(ctx, hold, locks)
	if errors.Is(err, holdRepo.ErrLockTaken) {
		retried, retryErr := s.retryAfterStaleLocks(ctx, hold, locks, now)
		if retryErr != nil {
			return nil, retryErr
		}
		if !retried {
			return nil, models.NewConflictError("the requested time was just taken")
		}
	} else if err != nil {
		return nil, err
	}

	if s.Limiter != nil && req.IdentityKey != "" {
		if err := s.Limiter.Increment(ctx, req.IdentityKey); err != nil {
			logger.Warn("Failed to record hold rate limit", zap.Error(err))
		}
	}

	logger.Info("Hold created",
		zap.String("hold_id", hold.ID),
		zap.String("scope", hold.ScopeKey()),
		zap.Time("expires_at", hold.ExpiresAt))
	return hold, nil
}

// retryAfterStaleLocks inspects the contended lock buckets. Buckets owned by
// holds that are no longer live are deleted and the insert is retried once;
// any live owner means a real conflict.
func (s *DefaultHoldService) retryAfterStaleLocks(ctx context.Context, hold *models.BookingHold, locks []models.HoldLock, now time.Time) (bool, error) {
	var stale []string
	for _, lock := range locks {
		existing, err := s.Holds.GetLock(ctx, lock.Key)
		if err != nil {
			return false, err
		}
		if existing == nil {
			continue
		}
		owner, err := s.Holds.GetHoldByID(ctx, existing.HoldID)
		if err != nil {
			return false, err
		}
		if owner != nil && owner.IsLive(now) {
			return false, nil
		}
		stale = append(stale, lock.Key)
	}
	if len(stale) == 0 {
		return false, nil
	}
	if err := s.Holds.DeleteLocks(ctx, stale); err != nil {
		return false, err
	}
	err := s.Holds.CreateHoldWithLocks(ctx, hold, locks)
	if errors.Is(err, holdRepo.ErrLockTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *DefaultHoldService) validateRequest(ctx context.Context, req *CreateHoldRequest, now time.Time) ([]models.Offering, error) {
	if req.ProviderID == "" {
		return nil, models.NewValidationError("provider_id is required")
	}
	if len(req.OfferingIDs) == 0 {
		return nil, models.NewValidationError("at least one offering is required")
	}
	if req.StartAt.IsZero() {
		return nil, models.NewValidationError("start_at is required")
	}
	if req.StartAt.Before(now) {
		return nil, models.NewValidationError("start_at is in the past")
	}
	switch req.LocationType {
	case models.LocationTypeInStore, models.LocationTypeAtHome:
	case "":
		req.LocationType = models.LocationTypeInStore
	default:
		return nil, models.NewValidationError("unknown location_type %q", req.LocationType)
	}
	if req.LocationType == models.LocationTypeAtHome && req.Address == "" {
		return nil, models.NewValidationError("address is required for at-home bookings")
	}

	if req.StaffID != "" {
		member, err := s.Catalog.GetStaffByID(ctx, req.StaffID)
		if err != nil {
			return nil, err
		}
		if member == nil || !member.IsActive {
			return nil, models.NewValidationError("staff member %s not found or inactive", req.StaffID)
		}
		if member.ProviderID != req.ProviderID {
			return nil, models.NewValidationError("staff member %s does not belong to provider %s", req.StaffID, req.ProviderID)
		}
	}

	offerings := make([]models.Offering, 0, len(req.OfferingIDs))
	for _, id := range req.OfferingIDs {
		off, err := s.Catalog.GetOfferingByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if off == nil || !off.IsActive {
			return nil, models.NewValidationError("offering %s not found or inactive", id)
		}
		if off.ProviderID != req.ProviderID {
			return nil, models.NewValidationError("offering %s does not belong to provider %s", id, req.ProviderID)
		}
		if req.LocationType == models.LocationTypeAtHome && !off.AtHomeSupported {
			return nil, models.NewValidationError("offering %s is not offered at home", id)
		}
		offerings = append(offerings, *off)
	}
	return offerings, nil
}

// pickAnyStaff resolves an any-staff request to the first active staff member
// whose timeline is free for the whole layout, in sorted id order.
func (s *DefaultHoldService) pickAnyStaff(ctx context.Context, req CreateHoldRequest, offerings []models.Offering) (string, error) {
	members, err := s.Catalog.ListActiveStaffByProvider(ctx, req.ProviderID)
	if err != nil {
		return "", err
	}
	if len(members) == 0 {
		return "", models.NewValidationError("provider %s has no active staff", req.ProviderID)
	}

	for _, member := range members {
		staffIDs := make([]string, len(offerings))
		for i := range staffIDs {
			staffIDs[i] = member.ID
		}
		planned, _ := availability.LayoutSequential(req.StartAt, offerings, staffIDs)

		free := true
		for _, p := range planned {
			scope := availability.ConflictScope{
				ProviderID: req.ProviderID,
				StaffID:    member.ID,
				LocationID: req.LocationID,
			}
			ok, err := s.Conflict.IsIntervalFree(ctx, scope, p.StartAt, p.BlockedUntil)
			if err != nil {
				return "", err
			}
			if !ok {
				free = false
				break
			}
		}
		if free {
			return member.ID, nil
		}
	}
	return "", models.NewConflictError("no staff member is free at the requested time")
}

// GetHold fetches a hold and applies lazy expiry: hold_status alone is never
// trusted for an active hold past its expiry.
func (s *DefaultHoldService) GetHold(ctx context.Context, holdID string) (*models.BookingHold, error) {
	hold, err := s.Holds.GetHoldByID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if hold == nil {
		return nil, models.NewNotFoundError("hold %s not found", holdID)
	}
	switch hold.HoldStatus {
	case models.HoldStatusActive:
		if !hold.ExpiresAt.After(s.now()) {
			return nil, models.NewHoldExpiredError(holdID)
		}
		return hold, nil
	case models.HoldStatusExpired:
		return nil, models.NewHoldExpiredError(holdID)
	default:
		return nil, models.NewHoldInactiveError(holdID)
	}
}

// ConsumeHold flips the hold to consumed exactly once and releases its lock
// buckets. The conditional update is the single source of truth: whoever
// loses the flip sees HOLD_INACTIVE.
func (s *DefaultHoldService) ConsumeHold(ctx context.Context, holdID string) (*models.BookingHold, error) {
	hold, err := s.GetHold(ctx, holdID)
	if err != nil {
		return nil, err
	}

	consumed, err := s.Holds.ConsumeHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, models.NewHoldInactiveError(holdID)
	}
	hold.HoldStatus = models.HoldStatusConsumed

	if err := s.Holds.DeleteLocks(ctx, hold.LockKeys); err != nil {
		utils.GetLogger().Warn("Failed to release hold locks",
			zap.String("hold_id", holdID), zap.Error(err))
	}
	return hold, nil
}

// ExpireStale flips holds past their expiry and removes their lock documents.
func (s *DefaultHoldService) ExpireStale(ctx context.Context) (int64, error) {
	return s.Holds.ExpireStaleHolds(ctx, s.now())
}

// lockKeysFor enumerates the lock bucket keys covering [start, end) at
// lockBucketSize granularity for one exclusion scope.
func lockKeysFor(scopeKey string, start, end time.Time) []string {
	var keys []string
	for t := start.Truncate(lockBucketSize); t.Before(end); t = t.Add(lockBucketSize) {
		keys = append(keys, fmt.Sprintf("%s|%d", scopeKey, t.Unix()))
	}
	return keys
}

func buildLocks(hold *models.BookingHold) []models.HoldLock {
	locks := make([]models.HoldLock, 0, len(hold.LockKeys))
	for _, key := range hold.LockKeys {
		locks = append(locks, models.HoldLock{
			Key:       key,
			HoldID:    hold.ID,
			ExpiresAt: hold.ExpiresAt,
			CreatedAt: hold.CreatedAt,
		})
	}
	return locks
}

func snapshotServices(planned []availability.PlannedService, locationType string) []models.HoldServiceSnapshot {
	services := make([]models.HoldServiceSnapshot, 0, len(planned))
	for _, p := range planned {
		price := p.Offering.BasePrice
		if locationType == models.LocationTypeAtHome {
			price = p.Offering.AtHomePrice
		}
		services = append(services, models.HoldServiceSnapshot{
			OfferingID:      p.Offering.ID,
			StaffID:         p.StaffID,
			StartAt:         p.StartAt,
			EndAt:           p.EndAt,
			BlockedUntil:    p.BlockedUntil,
			DurationMinutes: p.Offering.DurationMinutes,
			BufferMinutes:   p.Offering.BufferMinutes,
			Price:           price,
		})
	}
	return services
}
