package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEvent is the audit record of one inbound provider webhook.
type PaymentEvent struct {
	Id         uuid.UUID
	Provider   string
	EventId    string
	EventType  string
	BookingId  *uuid.UUID
	Payload    []byte
	ReceivedAt time.Time
}
