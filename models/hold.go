package models

import "time"

// Hold statuses.
const (
	HoldStatusActive   = "active"
	HoldStatusExpired  = "expired"
	HoldStatusConsumed = "consumed"
)

// HoldServiceSnapshot freezes one service's timing and pricing at hold time.
// EndAt excludes the trailing buffer; BlockedUntil includes it.
type HoldServiceSnapshot struct {
	OfferingID      string    `bson:"offering_id" json:"offering_id"`
	StaffID         string    `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
	StartAt         time.Time `bson:"start_at" json:"start_at"`
	EndAt           time.Time `bson:"end_at" json:"end_at"`
	BlockedUntil    time.Time `bson:"blocked_until" json:"blocked_until"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	BufferMinutes   int       `bson:"buffer_minutes" json:"buffer_minutes"`
	Price           float64   `bson:"price" json:"price"`
}

// BookingHold is a short-lived exclusive claim on a staff member's (or, when
// StaffID is empty, a whole provider's) time while a customer checks out.
// Readers must treat a hold past ExpiresAt as inactive regardless of whether
// a sweep has flipped HoldStatus.
type BookingHold struct {
	ID                   string                `bson:"id" json:"id"`
	ProviderID           string                `bson:"provider_id" json:"provider_id"`
	StaffID              string                `bson:"staff_id" json:"staff_id,omitempty"` // empty = any staff; stored even when empty so scope queries match
	Services             []HoldServiceSnapshot `bson:"services" json:"services"`
	StartAt              time.Time             `bson:"start_at" json:"start_at"`
	EndAt                time.Time             `bson:"end_at" json:"end_at"` // includes the last service's buffer
	HoldStatus           string                `bson:"hold_status" json:"hold_status"`
	ExpiresAt            time.Time             `bson:"expires_at" json:"expires_at"`
	GuestFingerprintHash string                `bson:"guest_fingerprint_hash,omitempty" json:"guest_fingerprint_hash,omitempty"`
	LocationType         string                `bson:"location_type" json:"location_type"`
	LocationID           string                `bson:"location_id,omitempty" json:"location_id,omitempty"`
	Address              string                `bson:"address,omitempty" json:"address,omitempty"`
	Metadata             map[string]string     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	LockKeys             []string              `bson:"lock_keys,omitempty" json:"-"`
	CreatedAt            time.Time             `bson:"created_at" json:"created_at"`
}

// IsLive reports whether the hold still claims its interval at the given time.
func (h *BookingHold) IsLive(now time.Time) bool {
	return h.HoldStatus == HoldStatusActive && h.ExpiresAt.After(now)
}

// ScopeKey returns the exclusion scope of the hold: the staff member when one
// is pinned, otherwise the provider ("any staff" mode).
func (h *BookingHold) ScopeKey() string {
	if h.StaffID != "" {
		return "staff:" + h.StaffID
	}
	return "provider:" + h.ProviderID
}

// HoldLock is a uniquely-keyed claim on one (scope, time-bucket) pair. The
// unique _id index stands in for a range exclusion constraint: two live holds
// overlapping on the same scope always contend on at least one bucket.
type HoldLock struct {
	Key       string    `bson:"_id" json:"key"` // "<scope>|<bucket unix>"
	HoldID    string    `bson:"hold_id" json:"hold_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
