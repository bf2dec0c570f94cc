package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"slotline/models"
)

// Hard default applied when neither the staff member nor the location has
// usable hours for the day: open 09:00–18:00, no breaks.
const (
	defaultOpenMinutes  = 9 * 60
	defaultCloseMinutes = 18 * 60
)

// parseClock converts an "HH:MM" string to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	return hours*60 + minutes, nil
}

// parseDay converts one configured open day to minute arithmetic. Any
// malformed time string fails the whole day: malformed configuration fails
// closed by falling through to the next fallback level, never by crashing.
func parseDay(day models.WorkingHoursDay) (models.ResolvedHours, error) {
	open, err := parseClock(day.OpenTime)
	if err != nil {
		return models.ResolvedHours{}, err
	}
	closeM, err := parseClock(day.CloseTime)
	if err != nil {
		return models.ResolvedHours{}, err
	}
	if closeM <= open {
		return models.ResolvedHours{}, fmt.Errorf("close %q not after open %q", day.CloseTime, day.OpenTime)
	}

	resolved := models.ResolvedHours{IsOpen: true, OpenMinutes: open, CloseMinutes: closeM}
	for _, br := range day.Breaks {
		start, err := parseClock(br.Start)
		if err != nil {
			return models.ResolvedHours{}, err
		}
		end, err := parseClock(br.End)
		if err != nil {
			return models.ResolvedHours{}, err
		}
		if end <= start {
			return models.ResolvedHours{}, fmt.Errorf("break end %q not after start %q", br.End, br.Start)
		}
		resolved.Breaks = append(resolved.Breaks, models.MinuteWindow{StartMinutes: start, EndMinutes: end})
	}
	return resolved, nil
}

// ResolveHours resolves the applicable working window for a day. The staff
// member's own hours apply when present, open, and well-formed; otherwise the
// location's hours apply — and there an explicitly closed day stays closed.
// Only when the location day is absent (or malformed) does the hard default
// kick in.
func ResolveHours(staffWeek, locationWeek models.WorkingHoursWeek, weekday time.Weekday) models.ResolvedHours {
	if day, found := staffWeek.Day(weekday); found && day.IsOpen {
		if hours, err := parseDay(day); err == nil {
			return hours
		}
	}
	if day, found := locationWeek.Day(weekday); found {
		if !day.IsOpen {
			return models.ResolvedHours{IsOpen: false}
		}
		if hours, err := parseDay(day); err == nil {
			return hours
		}
	}
	return models.ResolvedHours{
		IsOpen:       true,
		OpenMinutes:  defaultOpenMinutes,
		CloseMinutes: defaultCloseMinutes,
	}
}
