package availability

import (
	"context"
	"testing"
	"time"

	"slotline/models"
)

// --- fakes ---

type fakeCatalog struct {
	offerings       map[string]*models.Offering
	staff           map[string]*models.StaffMember
	locations       map[string]*models.Location
	primary         *models.Location
	offeringLookups int
}

func (f *fakeCatalog) GetOfferingByID(ctx context.Context, id string) (*models.Offering, error) {
	f.offeringLookups++
	return f.offerings[id], nil
}

func (f *fakeCatalog) GetStaffByID(ctx context.Context, id string) (*models.StaffMember, error) {
	return f.staff[id], nil
}

func (f *fakeCatalog) ListActiveStaffByProvider(ctx context.Context, providerID string) ([]models.StaffMember, error) {
	var out []models.StaffMember
	for _, id := range sortedKeys(f.staff) {
		m := f.staff[id]
		if m.ProviderID == providerID && m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetLocationByID(ctx context.Context, id string) (*models.Location, error) {
	return f.locations[id], nil
}

func (f *fakeCatalog) GetPrimaryLocation(ctx context.Context, providerID string) (*models.Location, error) {
	return f.primary, nil
}

func sortedKeys(m map[string]*models.StaffMember) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	return keys
}

type fakeBookings struct {
	services []models.BookingService
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b *models.Booking) error { return nil }

func (f *fakeBookings) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, nil
}

func (f *fakeBookings) FindOverlappingServices(ctx context.Context, staffID string, start, end time.Time, exclude string) ([]models.BookingService, error) {
	var out []models.BookingService
	for _, svc := range f.services {
		if svc.StaffID == staffID && Overlaps(svc.ScheduledStartAt, svc.BlockedUntil, start, end) {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateBookingServices(ctx context.Context, id string, services []models.BookingService) error {
	return nil
}

func (f *fakeBookings) UpdateBookingStatus(ctx context.Context, id, from, to string) (bool, error) {
	return false, nil
}

func (f *fakeBookings) EnsureIndexes() error { return nil }

type fakeHolds struct {
	holds []models.BookingHold
}

func (f *fakeHolds) CreateHoldWithLocks(ctx context.Context, h *models.BookingHold, locks []models.HoldLock) error {
	return nil
}

func (f *fakeHolds) GetHoldByID(ctx context.Context, id string) (*models.BookingHold, error) {
	return nil, nil
}

func (f *fakeHolds) GetLock(ctx context.Context, key string) (*models.HoldLock, error) {
	return nil, nil
}

func (f *fakeHolds) DeleteLocks(ctx context.Context, keys []string) error { return nil }

func (f *fakeHolds) FindOverlapping(ctx context.Context, providerID, staffID string, start, end, now time.Time) ([]models.BookingHold, error) {
	var out []models.BookingHold
	for _, h := range f.holds {
		if !h.IsLive(now) || !Overlaps(h.StartAt, h.EndAt, start, end) {
			continue
		}
		if h.StaffID == staffID || (h.StaffID == "" && h.ProviderID == providerID) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolds) FindActiveByFingerprint(ctx context.Context, hash string, now time.Time) (*models.BookingHold, error) {
	return nil, nil
}

func (f *fakeHolds) ConsumeHold(ctx context.Context, id string) (bool, error) { return false, nil }

func (f *fakeHolds) ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeHolds) EnsureIndexes() error { return nil }

type fakeBlocks struct {
	blocks []models.AvailabilityBlock
}

func (f *fakeBlocks) FindOverlapping(ctx context.Context, staffID, locationID string, start, end time.Time) ([]models.AvailabilityBlock, error) {
	var out []models.AvailabilityBlock
	for _, b := range f.blocks {
		if !Overlaps(b.StartAt, b.EndAt, start, end) {
			continue
		}
		if (b.StaffID != "" && b.StaffID == staffID) || (b.LocationID != "" && b.LocationID == locationID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlocks) CreateBlock(ctx context.Context, b *models.AvailabilityBlock) error { return nil }

// --- helpers ---

const testDate = "2026-09-07" // a Monday

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04", testDate+"T"+clock, time.Local)
	if err != nil {
		t.Fatalf("bad clock %q: %v", clock, err)
	}
	return ts
}

func newTestService(cat *fakeCatalog, bk *fakeBookings, hd *fakeHolds, bl *fakeBlocks) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Catalog:        cat,
		Bookings:       bk,
		Holds:          hd,
		Blocks:         bl,
		StepMinutes:    15,
		MaxAdvanceDays: 30,
		Now: func() time.Time {
			return time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
		},
	}
}

func mondayStaff(id, providerID string, open, close string) *models.StaffMember {
	return &models.StaffMember{
		ID:           id,
		ProviderID:   providerID,
		IsActive:     true,
		WorkingHours: models.WorkingHoursWeek{"1": openDay(open, close)},
	}
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{
		offerings: map[string]*models.Offering{
			"cut": {ID: "cut", ProviderID: "p1", DurationMinutes: 60, BufferMinutes: 15, IsActive: true, BasePrice: 40},
		},
		staff: map[string]*models.StaffMember{
			"s1": mondayStaff("s1", "p1", "09:00", "12:00"),
		},
	}
}

// --- tests ---

func TestGenerateStartTimesBufferMustFit(t *testing.T) {
	hours := models.ResolvedHours{IsOpen: true, OpenMinutes: 9 * 60, CloseMinutes: 17 * 60}

	starts := generateStartTimes(hours, 60, 15, 15)
	if len(starts) == 0 {
		t.Fatal("expected candidates")
	}
	last := starts[len(starts)-1]
	if last != 15*60+45 {
		t.Errorf("last start = %d, want 15:45 (945): a 16:00 start would push the buffer past close", last)
	}
	for _, s := range starts {
		if s+75 > hours.CloseMinutes {
			t.Errorf("start %d leaves no room for duration+buffer before close", s)
		}
	}
}

func TestGenerateStartTimesBreakBlocksServiceOnly(t *testing.T) {
	hours := models.ResolvedHours{
		IsOpen:       true,
		OpenMinutes:  9 * 60,
		CloseMinutes: 17 * 60,
		Breaks:       []models.MinuteWindow{{StartMinutes: 12 * 60, EndMinutes: 13 * 60}},
	}

	starts := generateStartTimes(hours, 60, 0, 15)
	has := map[int]bool{}
	for _, s := range starts {
		has[s] = true
	}
	if has[11*60+30] {
		t.Error("11:30 service runs into the 12:00 break and must be rejected")
	}
	if !has[11*60] {
		t.Error("11:00 service ends exactly at the break start and must be offered")
	}
	if !has[13*60] {
		t.Error("13:00 starts exactly at the break end and must be offered")
	}
}

func TestGetAvailabilityGeneratesSteppedSlots(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}

	// 60 min service + 15 min buffer in a 09:00-12:00 window: the whole block
	// must fit, so the last start is 10:45.
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	if slots[0].Start != testDate+"T09:00:00" || slots[0].End != testDate+"T10:00:00" {
		t.Errorf("first slot = %s-%s, want 09:00-10:00", slots[0].Start, slots[0].End)
	}
	if slots[7].Start != testDate+"T10:45:00" {
		t.Errorf("last slot starts at %s, want 10:45", slots[7].Start)
	}
	for _, s := range slots {
		if !s.IsAvailable {
			t.Errorf("slot %s unexpectedly unavailable", s.Start)
		}
		if s.StaffID != "s1" {
			t.Errorf("slot %s attributed to %q, want s1", s.Start, s.StaffID)
		}
	}
}

func TestGetAvailabilityMarksConflictsUnavailable(t *testing.T) {
	bookings := &fakeBookings{services: []models.BookingService{{
		StaffID:          "s1",
		ScheduledStartAt: at(t, "10:00"),
		ScheduledEndAt:   at(t, "11:00"),
		BlockedUntil:     at(t, "11:15"),
	}}}
	svc := newTestService(defaultCatalog(), bookings, &fakeHolds{}, &fakeBlocks{})

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8: conflicting slots are emitted, not hidden", len(slots))
	}

	// The candidate block is [start, start+75m); anything touching the
	// booking's [10:00, 11:15) blocked interval is unavailable.
	available := map[string]bool{}
	for _, s := range slots {
		available[s.Start] = s.IsAvailable
	}
	if available[testDate+"T09:00:00"] {
		t.Error("09:00 block runs to 10:15 and must conflict with the 10:00 booking")
	}
	if available[testDate+"T10:30:00"] {
		t.Error("10:30 starts inside the booking's blocked interval")
	}
}

func TestGetAvailabilitySkipsBreakOverlaps(t *testing.T) {
	cat := defaultCatalog()
	cat.offerings["cut"].DurationMinutes = 30
	cat.offerings["cut"].BufferMinutes = 15
	cat.staff["s1"].WorkingHours = models.WorkingHoursWeek{
		"1": openDay("09:00", "12:00", models.BreakWindow{Start: "10:00", End: "10:30"}),
	}
	svc := newTestService(cat, &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}

	starts := map[string]bool{}
	for _, s := range slots {
		starts[s.Start] = true
	}
	// The service interval may not cross the break; the trailing buffer may.
	if starts[testDate+"T09:45:00"] {
		t.Error("09:45 service runs to 10:15, crossing the break")
	}
	if !starts[testDate+"T09:30:00"] {
		t.Error("09:30 service ends exactly at the break start and must be offered")
	}
	if !starts[testDate+"T10:30:00"] {
		t.Error("10:30 starts exactly at the break end and must be offered")
	}
}

func TestGetAvailabilityAnyStaffUnionFirstFree(t *testing.T) {
	cat := defaultCatalog()
	cat.staff["s2"] = mondayStaff("s2", "p1", "09:00", "12:00")
	bookings := &fakeBookings{services: []models.BookingService{{
		StaffID:          "s1",
		ScheduledStartAt: at(t, "09:00"),
		ScheduledEndAt:   at(t, "10:00"),
		BlockedUntil:     at(t, "10:15"),
	}}}
	svc := newTestService(cat, bookings, &fakeHolds{}, &fakeBlocks{})

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", AnyStaff: true,
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}

	bySlot := map[string]models.Slot{}
	for _, s := range slots {
		bySlot[s.Start] = s
	}
	nine := bySlot[testDate+"T09:00:00"]
	if !nine.IsAvailable {
		t.Fatal("09:00 must be available via s2")
	}
	if nine.StaffID != "s2" {
		t.Errorf("09:00 attributed to %q, want s2 (first free in order)", nine.StaffID)
	}
	later := bySlot[testDate+"T10:30:00"]
	if !later.IsAvailable || later.StaffID != "s1" {
		t.Errorf("10:30 = %+v, want available via s1", later)
	}
}

func TestGetAvailabilityMinNoticeDropsEarlySlots(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})
	svc.Now = func() time.Time { return at(t, "09:00") }

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
		MinNoticeMinutes: 60,
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected slots at or after 10:00")
	}
	if slots[0].Start != testDate+"T10:00:00" {
		t.Errorf("first slot = %s, want 10:00 after the notice window", slots[0].Start)
	}
}

func TestGetAvailabilityBeyondMaxAdvanceIsEmpty(t *testing.T) {
	cat := defaultCatalog()
	svc := newTestService(cat, &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})
	svc.MaxAdvanceDays = 3

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("got %d slots for a date beyond the advance window, want none", len(slots))
	}
	// The rejection runs before any lookup, so a cached listing produced under
	// a laxer limit can never be served past this caller's limit.
	if cat.offeringLookups != 0 {
		t.Errorf("offering looked up %d times, want the date rejected first", cat.offeringLookups)
	}
}

func TestGetAvailabilityServiceDefaultMinNotice(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})
	svc.MinNoticeMinutes = 60
	svc.Now = func() time.Time { return at(t, "09:00") }

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) == 0 || slots[0].Start != testDate+"T10:00:00" {
		t.Fatalf("first slot = %v, want 10:00 under the configured default notice", slots)
	}

	// A per-request value overrides the service default.
	slots, err = svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
		MinNoticeMinutes: 90,
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) == 0 || slots[0].Start != testDate+"T10:30:00" {
		t.Fatalf("first slot = %v, want 10:30 under the request notice", slots)
	}
}

func TestGetAvailabilityDurationOverride(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
		DurationMinutes: 120,
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}

	// 120 min + the offering's 15 min buffer in a 09:00-12:00 window: starts
	// through 09:45 fit.
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	if slots[0].End != testDate+"T11:00:00" {
		t.Errorf("first slot ends %s, want 11:00 for the overridden duration", slots[0].End)
	}
	if slots[3].Start != testDate+"T09:45:00" {
		t.Errorf("last slot starts %s, want 09:45", slots[3].Start)
	}
}

func TestGetAvailabilityAnyStaffHoldBlocksEveryStaff(t *testing.T) {
	cat := defaultCatalog()
	cat.staff["s2"] = mondayStaff("s2", "p1", "09:00", "12:00")
	holds := &fakeHolds{holds: []models.BookingHold{{
		ID:         "h1",
		ProviderID: "p1",
		StaffID:    "",
		StartAt:    at(t, "09:00"),
		EndAt:      at(t, "10:15"),
		HoldStatus: models.HoldStatusActive,
		ExpiresAt:  at(t, "23:00"),
	}}}
	svc := newTestService(cat, &fakeBookings{}, holds, &fakeBlocks{})
	svc.Now = func() time.Time { return at(t, "08:00") }

	slots, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", AnyStaff: true,
	})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	for _, s := range slots {
		if s.Start == testDate+"T09:00:00" && s.IsAvailable {
			t.Error("a provider-wide hold must block 09:00 for every staff member")
		}
	}
}

func TestGetAvailabilityInactiveOfferingRejected(t *testing.T) {
	cat := defaultCatalog()
	cat.offerings["cut"].IsActive = false
	svc := newTestService(cat, &fakeBookings{}, &fakeHolds{}, &fakeBlocks{})

	_, err := svc.GetAvailability(context.Background(), AvailabilityRequest{
		ProviderID: "p1", Date: testDate, OfferingID: "cut", StaffID: "s1",
	})
	se, ok := models.AsServiceError(err)
	if !ok || se.Code != models.CodeValidation {
		t.Fatalf("got %v, want VALIDATION_ERROR", err)
	}
}
