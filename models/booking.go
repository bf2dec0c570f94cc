package models

import "time"

// Booking statuses. Once a booking leaves pending/requested into confirmed,
// its service intervals are authoritative for conflict checks. Cancelled and
// no_show bookings drop out of the conflict set entirely.
const (
	BookingStatusPending   = "pending"
	BookingStatusRequested = "requested"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
)

// Location types for a booking.
const (
	LocationTypeInStore = "in_store"
	LocationTypeAtHome  = "at_home"
)

// BookingService is one service line inside a booking. BlockedUntil is the
// scheduled end plus the offering's trailing buffer; conflict queries run
// against [ScheduledStartAt, BlockedUntil).
type BookingService struct {
	OfferingID       string    `bson:"offering_id" json:"offering_id"`
	StaffID          string    `bson:"staff_id" json:"staff_id"`
	ScheduledStartAt time.Time `bson:"scheduled_start_at" json:"scheduled_start_at"`
	ScheduledEndAt   time.Time `bson:"scheduled_end_at" json:"scheduled_end_at"`
	BlockedUntil     time.Time `bson:"blocked_until" json:"blocked_until"`
	DurationMinutes  int       `bson:"duration_minutes" json:"duration_minutes"`
	BufferMinutes    int       `bson:"buffer_minutes" json:"buffer_minutes"`
	Price            float64   `bson:"price" json:"price"`
}

// Booking is a confirmed multi-service reservation.
type Booking struct {
	ID           string           `bson:"id" json:"id"`
	ProviderID   string           `bson:"provider_id" json:"provider_id"`
	CustomerID   string           `bson:"customer_id" json:"customer_id"`
	Status       string           `bson:"status" json:"status"`
	Services     []BookingService `bson:"services" json:"services"`
	LocationType string           `bson:"location_type" json:"location_type"`
	LocationID   string           `bson:"location_id,omitempty" json:"location_id,omitempty"`
	Address      string           `bson:"address,omitempty" json:"address,omitempty"`
	TotalPrice   float64          `bson:"total_price" json:"total_price"`
	HoldID       string           `bson:"hold_id,omitempty" json:"hold_id,omitempty"`
	RequestID    string           `bson:"request_id,omitempty" json:"request_id,omitempty"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at" json:"updated_at"`
}

// OccupiesConflictSet reports whether a booking in this status blocks other
// reservations.
func OccupiesConflictSet(status string) bool {
	return status != BookingStatusCancelled && status != BookingStatusNoShow
}
