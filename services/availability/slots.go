package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"slotline/models"
)

// slotTimeLayout composes the response timestamps: server-local date plus the
// slot's wall-clock time.
const slotTimeLayout = "2006-01-02T15:04:05"

// generateStartTimes enumerates the candidate start minutes of one resolved
// day. A candidate survives when the whole reserved block (duration plus
// trailing buffer) fits inside the working window and the service interval
// itself does not intersect a break. Buffers may run into a break; the
// service may not.
func generateStartTimes(hours models.ResolvedHours, durationMin, bufferMin, stepMin int) []int {
	if !hours.IsOpen || durationMin <= 0 || stepMin <= 0 {
		return nil
	}
	var starts []int
	for start := hours.OpenMinutes; start+durationMin <= hours.CloseMinutes; start += stepMin {
		if start+durationMin+bufferMin > hours.CloseMinutes {
			continue
		}
		if intersectsBreak(start, start+durationMin, hours.Breaks) {
			continue
		}
		starts = append(starts, start)
	}
	return starts
}

// intersectsBreak applies the half-open overlap test against each break.
func intersectsBreak(startMin, endMin int, breaks []models.MinuteWindow) bool {
	for _, br := range breaks {
		if startMin < br.EndMinutes && endMin > br.StartMinutes {
			return true
		}
	}
	return false
}

// GetAvailability lists the candidate slots on one date. Unavailable slots
// are emitted with is_available=false rather than hidden. In any-staff mode
// the per-staff candidates are unioned and a start time is available when at
// least one staff member is free; the attached staff id is the first free one
// in iteration order.
func (s *DefaultAvailabilityService) GetAvailability(ctx context.Context, req AvailabilityRequest) ([]models.Slot, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, models.NewValidationError("invalid date %q, want YYYY-MM-DD", req.Date)
	}

	now := s.now()
	// Max-advance post-filter rejects the whole date. It runs before the
	// cache read so a listing cached under a laxer limit is never served to a
	// caller whose limit excludes the date.
	maxAdvance := req.MaxAdvanceDays
	if maxAdvance <= 0 {
		maxAdvance = s.MaxAdvanceDays
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if maxAdvance > 0 && date.After(today.AddDate(0, 0, maxAdvance)) {
		return []models.Slot{}, nil
	}

	if cached, ok := s.cachedSlots(ctx, req); ok {
		return cached, nil
	}

	offering, err := s.Catalog.GetOfferingByID(ctx, req.OfferingID)
	if err != nil {
		return nil, err
	}
	if offering == nil || !offering.IsActive {
		return nil, models.NewValidationError("offering %s not found or inactive", req.OfferingID)
	}
	providerID := req.ProviderID
	if providerID == "" {
		providerID = offering.ProviderID
	}
	duration := offering.DurationMinutes
	if req.DurationMinutes > 0 {
		duration = req.DurationMinutes
	}

	staff, err := s.resolveStaff(ctx, req, providerID)
	if err != nil {
		return nil, err
	}
	location, err := s.resolveLocation(ctx, req.LocationID, providerID)
	if err != nil {
		return nil, err
	}
	var locationWeek models.WorkingHoursWeek
	locationID := req.LocationID
	if location != nil {
		locationWeek = location.WorkingHours
		locationID = location.ID
	}

	// byStart unions the per-staff candidates; order tracks first appearance.
	byStart := make(map[int]*models.Slot)
	var order []int

	for _, member := range staff {
		hours := ResolveHours(member.WorkingHours, locationWeek, date.Weekday())
		for _, startMin := range generateStartTimes(hours, duration, offering.BufferMinutes, s.step()) {
			startAt := date.Add(time.Duration(startMin) * time.Minute)
			blockEnd := startAt.Add(time.Duration(duration+offering.BufferMinutes) * time.Minute)

			scope := ConflictScope{ProviderID: providerID, StaffID: member.ID, LocationID: locationID}
			free, err := s.IsIntervalFree(ctx, scope, startAt, blockEnd)
			if err != nil {
				return nil, err
			}

			slot, seen := byStart[startMin]
			if !seen {
				slot = &models.Slot{
					Start:      startAt.Format(slotTimeLayout),
					End:        startAt.Add(time.Duration(duration) * time.Minute).Format(slotTimeLayout),
					LocationID: locationID,
				}
				byStart[startMin] = slot
				order = append(order, startMin)
			}
			if free && !slot.IsAvailable {
				slot.IsAvailable = true
				slot.StaffID = member.ID
			}
		}
	}

	sort.Ints(order)

	// Min-notice post-filter drops slots starting too soon; in practice this
	// only affects today's listing.
	notice := now.Add(time.Duration(s.minNotice(req)) * time.Minute)
	slots := make([]models.Slot, 0, len(order))
	for _, startMin := range order {
		if date.Add(time.Duration(startMin) * time.Minute).Before(notice) {
			continue
		}
		slots = append(slots, *byStart[startMin])
	}

	s.storeSlots(ctx, req, slots)
	return slots, nil
}

func (s *DefaultAvailabilityService) resolveStaff(ctx context.Context, req AvailabilityRequest, providerID string) ([]models.StaffMember, error) {
	if req.AnyStaff {
		staff, err := s.Catalog.ListActiveStaffByProvider(ctx, providerID)
		if err != nil {
			return nil, err
		}
		if len(staff) == 0 {
			return nil, models.NewValidationError("provider %s has no active staff", providerID)
		}
		return staff, nil
	}

	member, err := s.Catalog.GetStaffByID(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.IsActive {
		return nil, models.NewValidationError("staff member %s not found or inactive", req.StaffID)
	}
	return []models.StaffMember{*member}, nil
}

func (s *DefaultAvailabilityService) resolveLocation(ctx context.Context, locationID, providerID string) (*models.Location, error) {
	if locationID != "" {
		return s.Catalog.GetLocationByID(ctx, locationID)
	}
	return s.Catalog.GetPrimaryLocation(ctx, providerID)
}

// minNotice resolves the effective min-notice window: the per-request value
// when given, the service default otherwise.
func (s *DefaultAvailabilityService) minNotice(req AvailabilityRequest) int {
	if req.MinNoticeMinutes > 0 {
		return req.MinNoticeMinutes
	}
	return s.MinNoticeMinutes
}

func (s *DefaultAvailabilityService) cacheKey(req AvailabilityRequest) string {
	staffPart := req.StaffID
	if req.AnyStaff {
		staffPart = "any"
	}
	return fmt.Sprintf("avail:%s:%s:%s:%s:%s:%d:%d", req.ProviderID, req.Date, req.OfferingID, staffPart, req.LocationID, req.DurationMinutes, s.minNotice(req))
}

func (s *DefaultAvailabilityService) cachedSlots(ctx context.Context, req AvailabilityRequest) ([]models.Slot, bool) {
	if s.Cache == nil {
		return nil, false
	}
	data, err := s.Cache.Get(ctx, s.cacheKey(req)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (s *DefaultAvailabilityService) storeSlots(ctx context.Context, req AvailabilityRequest, slots []models.Slot) {
	if s.Cache == nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if data, err := json.Marshal(slots); err == nil {
		s.Cache.Set(ctx, s.cacheKey(req), data, ttl)
	}
}
