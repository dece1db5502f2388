package events

import "time"

// Event is anything that can be published on the event bus.
type Event interface {
	// EventType is the subject suffix, e.g. "BOOKING_CANCELLED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	BookingCreated       = "BOOKING_CREATED"
	BookingConfirmed     = "BOOKING_CONFIRMED"
	BookingRescheduled   = "BOOKING_RESCHEDULED"
	BookingCancelled     = "BOOKING_CANCELLED"
	BookingCompleted     = "BOOKING_COMPLETED"
	BookingPaymentFailed = "BOOKING_PAYMENT_FAILED"
)
