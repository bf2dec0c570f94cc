package models

// Offering is a bookable service. Buffer is the mandatory trailing gap after
// the service duration; it is reserved together with the duration but never
// shown as part of it.
type Offering struct {
	ID              string  `bson:"id" json:"id"`
	ProviderID      string  `bson:"provider_id" json:"provider_id"`
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"duration_minutes" json:"duration_minutes"`
	BufferMinutes   int     `bson:"buffer_minutes" json:"buffer_minutes"`
	IsActive        bool    `bson:"is_active" json:"is_active"`
	AtHomeSupported bool    `bson:"at_home_supported" json:"at_home_supported"`
	BasePrice       float64 `bson:"base_price" json:"base_price"`
	AtHomePrice     float64 `bson:"at_home_price,omitempty" json:"at_home_price,omitempty"`
}
