package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerId    uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceId     uuid.UUID `gorm:"type:uuid;not null;index"`
	StartTime     time.Time `gorm:"not null;index"`
	EndTime       time.Time `gorm:"not null"`
	Notes         string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'UNPAID';index"`

	PaymentProvider  string  `gorm:"type:varchar(20)"`
	PaymentSessionId *string `gorm:"type:varchar(255);index"`
	RefundReference  *string `gorm:"type:varchar(255)"`

	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancellationReason *string `gorm:"type:varchar(30)"`
	RefundAmount       int64   `gorm:"not null"`
	CompletedAt        *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Relations
	Service  *Service `gorm:"foreignKey:ServiceId"`
	Customer *User    `gorm:"foreignKey:CustomerId"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Id == uuid.Nil {
		b.Id = uuid.New()
	}
	return nil
}
