package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentEvent struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Provider   string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_payment_events_provider_event"`
	EventId    string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_payment_events_provider_event"`
	EventType  string         `gorm:"type:varchar(100);not null"`
	BookingId  *uuid.UUID     `gorm:"type:uuid;index"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt time.Time      `gorm:"autoCreateTime"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}

func (e *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.Id == uuid.Nil {
		e.Id = uuid.New()
	}
	return nil
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Service{},
		&Booking{},
		&PaymentEvent{},
	}
}
