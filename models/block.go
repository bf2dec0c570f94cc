package models

import "time"

// AvailabilityBlock is an explicit blackout interval scoped to a staff member
// and/or a location. Blocks are created by provider-side tooling; this
// subsystem only reads them during conflict checks.
type AvailabilityBlock struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	StaffID    string    `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
	LocationID string    `bson:"location_id,omitempty" json:"location_id,omitempty"`
	StartAt    time.Time `bson:"start_at" json:"start_at"`
	EndAt      time.Time `bson:"end_at" json:"end_at"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
