package models

import "time"

// On-demand request statuses.
const (
	RequestStatusRequested = "requested"
	RequestStatusAccepted  = "accepted"
	RequestStatusDeclined  = "declined"
)

// DraftService is one requested service line inside a booking draft.
type DraftService struct {
	OfferingID string `bson:"offering_id" json:"offering_id"`
	StaffID    string `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
}

// BookingDraft is the serialized payload an on-demand request carries; it is
// turned into a real booking when the provider accepts.
type BookingDraft struct {
	ProviderID   string         `bson:"provider_id" json:"provider_id"`
	CustomerID   string         `bson:"customer_id" json:"customer_id"`
	StaffID      string         `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
	StartAt      time.Time      `bson:"start_at" json:"start_at"`
	Services     []DraftService `bson:"services" json:"services"`
	LocationType string         `bson:"location_type" json:"location_type"`
	LocationID   string         `bson:"location_id,omitempty" json:"location_id,omitempty"`
	Address      string         `bson:"address,omitempty" json:"address,omitempty"`
}

// OnDemandRequest is a standing request for immediate service awaiting a
// provider's accept or decline. The status transition is a conditional update;
// once accepted the request is linked to the resulting booking.
type OnDemandRequest struct {
	ID            string       `bson:"id" json:"id"`
	ProviderID    string       `bson:"provider_id" json:"provider_id"`
	CustomerID    string       `bson:"customer_id" json:"customer_id"`
	Status        string       `bson:"status" json:"status"`
	ExpiresAt     time.Time    `bson:"expires_at" json:"expires_at"`
	Payload       BookingDraft `bson:"payload" json:"payload"`
	DeclineReason string       `bson:"decline_reason,omitempty" json:"decline_reason,omitempty"`
	BookingID     string       `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	CreatedAt     time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `bson:"updated_at" json:"updated_at"`
}
