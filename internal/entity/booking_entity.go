package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string
type PaymentStatus string
type CancellationReason string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"

	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"

	CancellationReasonCustomerRequest CancellationReason = "CUSTOMER_REQUEST"
	CancellationReasonAdminCancelled  CancellationReason = "ADMIN_CANCELLED"
	CancellationReasonNoShow          CancellationReason = "NO_SHOW"
	CancellationReasonOther           CancellationReason = "OTHER"
)

type Booking struct {
	Id            uuid.UUID
	CustomerId    uuid.UUID
	ServiceId     uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	Notes         string
	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Payment provider references. PaymentSessionId is the hosted checkout
	// session; RefundReference is set only after a refund was issued.
	PaymentProvider  string
	PaymentSessionId *string
	RefundReference  *string

	CancelledBy        *uuid.UUID
	CancelledAt        *time.Time
	CancellationReason *CancellationReason
	RefundAmount       int64
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Service  *Service
	Customer *User
}

func (b *Booking) HasPaymentSession() bool {
	return b.PaymentSessionId != nil && *b.PaymentSessionId != ""
}
