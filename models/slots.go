package models

// ResolvedHours is the arithmetic-safe form of one day's working hours: all
// times as minutes since midnight.
type ResolvedHours struct {
	IsOpen       bool           `json:"isOpen"`
	OpenMinutes  int            `json:"openMinutes"`
	CloseMinutes int            `json:"closeMinutes"`
	Breaks       []MinuteWindow `json:"breaks,omitempty"`
}

// MinuteWindow is a half-open [start, end) interval in minutes since midnight.
type MinuteWindow struct {
	StartMinutes int `json:"startMinutes"`
	EndMinutes   int `json:"endMinutes"`
}

// Slot is a candidate bookable start time. Unavailable slots are emitted too,
// so clients can render them disabled.
type Slot struct {
	Start       string `json:"start"` // ISO-8601, server-local date composition
	End         string `json:"end"`
	StaffID     string `json:"staff_id,omitempty"`
	LocationID  string `json:"location_id,omitempty"`
	IsAvailable bool   `json:"is_available"`
}
