package availability

import (
	"testing"
	"time"

	"slotline/models"
)

func openDay(open, close string, breaks ...models.BreakWindow) models.WorkingHoursDay {
	return models.WorkingHoursDay{IsOpen: true, OpenTime: open, CloseTime: close, Breaks: breaks}
}

func week(d time.Weekday, day models.WorkingHoursDay) models.WorkingHoursWeek {
	return models.WorkingHoursWeek{dayKey(d): day}
}

func dayKey(d time.Weekday) string {
	return string(rune('0' + int(d)))
}

func TestResolveHoursStaffWinsOverLocation(t *testing.T) {
	staff := week(time.Monday, openDay("10:00", "16:00"))
	location := week(time.Monday, openDay("08:00", "20:00"))

	got := ResolveHours(staff, location, time.Monday)
	if !got.IsOpen {
		t.Fatal("expected open day")
	}
	if got.OpenMinutes != 10*60 || got.CloseMinutes != 16*60 {
		t.Errorf("got window %d-%d, want 600-960", got.OpenMinutes, got.CloseMinutes)
	}
}

func TestResolveHoursStaffClosedFallsToLocation(t *testing.T) {
	staff := week(time.Monday, models.WorkingHoursDay{IsOpen: false})
	location := week(time.Monday, openDay("08:00", "14:00"))

	got := ResolveHours(staff, location, time.Monday)
	if !got.IsOpen || got.OpenMinutes != 8*60 || got.CloseMinutes != 14*60 {
		t.Errorf("got %+v, want location window 480-840", got)
	}
}

func TestResolveHoursStaffAbsentFallsToLocation(t *testing.T) {
	location := week(time.Tuesday, openDay("07:30", "12:00"))

	got := ResolveHours(nil, location, time.Tuesday)
	if !got.IsOpen || got.OpenMinutes != 7*60+30 || got.CloseMinutes != 12*60 {
		t.Errorf("got %+v, want location window 450-720", got)
	}
}

func TestResolveHoursLocationClosedStaysClosed(t *testing.T) {
	location := week(time.Sunday, models.WorkingHoursDay{IsOpen: false})

	got := ResolveHours(nil, location, time.Sunday)
	if got.IsOpen {
		t.Fatal("explicitly closed location day must not fall through to the default")
	}
}

func TestResolveHoursDefaultWhenNothingConfigured(t *testing.T) {
	got := ResolveHours(nil, nil, time.Wednesday)
	if !got.IsOpen {
		t.Fatal("expected default open day")
	}
	if got.OpenMinutes != 9*60 || got.CloseMinutes != 18*60 {
		t.Errorf("got window %d-%d, want default 540-1080", got.OpenMinutes, got.CloseMinutes)
	}
}

func TestResolveHoursMalformedStaffDayFallsToLocation(t *testing.T) {
	staff := week(time.Monday, openDay("25:00", "16:00"))
	location := week(time.Monday, openDay("08:00", "20:00"))

	got := ResolveHours(staff, location, time.Monday)
	if got.OpenMinutes != 8*60 || got.CloseMinutes != 20*60 {
		t.Errorf("got %+v, want location window after malformed staff day", got)
	}
}

func TestResolveHoursMalformedLocationDayUsesDefault(t *testing.T) {
	location := week(time.Monday, openDay("08:00", "nope"))

	got := ResolveHours(nil, location, time.Monday)
	if got.OpenMinutes != 9*60 || got.CloseMinutes != 18*60 {
		t.Errorf("got %+v, want default window after malformed location day", got)
	}
}

func TestResolveHoursMalformedBreakFailsWholeDay(t *testing.T) {
	staff := week(time.Monday, openDay("09:00", "17:00", models.BreakWindow{Start: "13:00", End: "12:00"}))
	location := week(time.Monday, openDay("10:00", "15:00"))

	got := ResolveHours(staff, location, time.Monday)
	if got.OpenMinutes != 10*60 || got.CloseMinutes != 15*60 {
		t.Errorf("got %+v, want location window after bad break", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
