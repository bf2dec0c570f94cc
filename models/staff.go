package models

import (
	"strconv"
	"time"
)

// BreakWindow is a pause inside a working day, both ends as "HH:MM" local time.
type BreakWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// WorkingHoursDay describes one weekday's opening window.
type WorkingHoursDay struct {
	IsOpen    bool          `bson:"isOpen" json:"isOpen"`
	OpenTime  string        `bson:"openTime" json:"openTime"`   // "HH:MM" local
	CloseTime string        `bson:"closeTime" json:"closeTime"` // "HH:MM" local
	Breaks    []BreakWindow `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// WorkingHoursWeek maps day-of-week (0=Sunday, as a string key for BSON) to hours.
type WorkingHoursWeek map[string]WorkingHoursDay

// Day returns the configured hours for a weekday, if any.
func (w WorkingHoursWeek) Day(d time.Weekday) (WorkingHoursDay, bool) {
	if w == nil {
		return WorkingHoursDay{}, false
	}
	day, ok := w[strconv.Itoa(int(d))]
	return day, ok
}

// StaffMember is a bookable person belonging to a provider.
type StaffMember struct {
	ID           string           `bson:"id" json:"id"`
	ProviderID   string           `bson:"provider_id" json:"provider_id"`
	Name         string           `bson:"name" json:"name"`
	IsActive     bool             `bson:"is_active" json:"is_active"`
	WorkingHours WorkingHoursWeek `bson:"working_hours,omitempty" json:"working_hours,omitempty"`
	LocationIDs  []string         `bson:"location_ids,omitempty" json:"location_ids,omitempty"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
}

// Location is a provider site with its own opening hours, used as the
// working-hours fallback for staff without an explicit schedule.
type Location struct {
	ID           string           `bson:"id" json:"id"`
	ProviderID   string           `bson:"provider_id" json:"provider_id"`
	Name         string           `bson:"name" json:"name"`
	IsPrimary    bool             `bson:"is_primary" json:"is_primary"`
	WorkingHours WorkingHoursWeek `bson:"working_hours,omitempty" json:"working_hours,omitempty"`
}
