package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingOwnedBy struct {
	CustomerID uuid.UUID
}

func (s BookingOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerID)
}

type BookingForService struct {
	ServiceID uuid.UUID
}

func (s BookingForService) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("service_id = ?", s.ServiceID)
}

type BookingWithStatus struct {
	Statuses []string
}

func (s BookingWithStatus) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Statuses) == 1 {
		return db.Where("status = ?", s.Statuses[0])
	}
	return db.Where("status IN ?", s.Statuses)
}

type BookingWithPaymentStatus struct {
	Status string
}

func (s BookingWithPaymentStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ?", s.Status)
}

type BookingBySession struct {
	SessionID string
}

func (s BookingBySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_session_id = ?", s.SessionID)
}

type BookingStartsAt struct {
	Time time.Time
}

func (s BookingStartsAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time = ?", s.Time)
}

// BookingStartsBetween matches start_time in [From, To).
type BookingStartsBetween struct {
	From time.Time
	To   time.Time
}

func (s BookingStartsBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time >= ? AND start_time < ?", s.From, s.To)
}

type BookingEndedBefore struct {
	Time time.Time
}

func (s BookingEndedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_time < ?", s.Time)
}

type BookingCancelledSince struct {
	Time time.Time
}

func (s BookingCancelledSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cancelled_at >= ?", s.Time)
}

type PaymentEventByExternalID struct {
	Provider string
	EventID  string
}

func (s PaymentEventByExternalID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider = ? AND event_id = ?", s.Provider, s.EventID)
}
