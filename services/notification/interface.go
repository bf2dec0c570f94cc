package notification

import "context"

// Intent types.
const (
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypeBookingMoved     = "booking_rescheduled"
	TypeRequestCreated   = "request_created"
	TypeRequestAccepted  = "request_accepted"
	TypeRequestDeclined  = "request_declined"
)

// Intent describes a notification to be delivered out of band. Delivery is
// best effort: booking flows never fail because a notification could not be
// queued.
type Intent struct {
	Type        string            `json:"type"`
	RecipientID string            `json:"recipient_id"`
	ProviderID  string            `json:"provider_id,omitempty"`
	BookingID   string            `json:"booking_id,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	Message     string            `json:"message"`
	Data        map[string]string `json:"data,omitempty"`
}

// Notifier enqueues notification intents for asynchronous delivery.
type Notifier interface {
	Enqueue(ctx context.Context, intent Intent)
}
