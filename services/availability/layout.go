package availability

import (
	"time"

	"slotline/models"
)

// PlannedService is one service occurrence laid out on the timeline.
type PlannedService struct {
	Offering models.Offering
	StaffID  string
	StartAt  time.Time
	EndAt    time.Time
	// BlockedUntil is EndAt plus the trailing buffer; conflict checks run
	// against this bound.
	BlockedUntil time.Time
}

// LayoutSequential places the offerings back to back from startAt. Each
// service occupies its duration; the cursor then advances past the trailing
// buffer before the next service begins. staffIDs is parallel to offerings
// and may repeat; an empty entry means any staff.
func LayoutSequential(startAt time.Time, offerings []models.Offering, staffIDs []string) ([]PlannedService, time.Time) {
	planned := make([]PlannedService, 0, len(offerings))
	cursor := startAt
	end := startAt
	for i, off := range offerings {
		svcEnd := cursor.Add(time.Duration(off.DurationMinutes) * time.Minute)
		blocked := svcEnd.Add(time.Duration(off.BufferMinutes) * time.Minute)
		var staffID string
		if i < len(staffIDs) {
			staffID = staffIDs[i]
		}
		planned = append(planned, PlannedService{
			Offering:     off,
			StaffID:      staffID,
			StartAt:      cursor,
			EndAt:        svcEnd,
			BlockedUntil: blocked,
		})
		cursor = blocked
		end = blocked
	}
	return planned, end
}
