package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ServiceId uuid.UUID `json:"serviceId" validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	Notes     string    `json:"notes" validate:"max=2000"`
}

type RescheduleBookingRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
}

type CustomerSummary struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone,omitempty"`
}

type BookingResponse struct {
	Id                 uuid.UUID        `json:"id"`
	Status             string           `json:"status"`
	PaymentStatus      string           `json:"paymentStatus"`
	StartTime          time.Time        `json:"startTime"`
	EndTime            time.Time        `json:"endTime"`
	Notes              string           `json:"notes,omitempty"`
	RefundAmount       int64            `json:"refundAmount"`
	CancelledAt        *time.Time       `json:"cancelledAt,omitempty"`
	CancellationReason *string          `json:"cancellationReason,omitempty"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	Service            *ServiceResponse `json:"service,omitempty"`
	Customer           *CustomerSummary `json:"customer,omitempty"`
}

type CheckoutResponse struct {
	SessionId string `json:"sessionId"`
	Url       string `json:"url"`
}

// CancelBookingResponse keeps the envelope fields and adds the cancellation
// result at the top level. RefundAmount is in major units.
type CancelBookingResponse struct {
	Success         bool    `json:"success"`
	Code            int     `json:"code"`
	Message         string  `json:"message"`
	RefundProcessed bool    `json:"refundProcessed"`
	RefundAmount    float64 `json:"refundAmount"`
	Warning         string  `json:"warning,omitempty"`
}

type CompleteBookingsResponse struct {
	Updated int64 `json:"updated"`
}

// BookingNotificationMessage is queued for asynchronous email delivery.
type BookingNotificationMessage struct {
	BookingId     uuid.UUID  `json:"bookingId"`
	Kind          string     `json:"kind"`
	PreviousStart *time.Time `json:"previousStart,omitempty"`
}

const (
	NotificationKindConfirmed   = "confirmed"
	NotificationKindApproved    = "approved"
	NotificationKindRescheduled = "rescheduled"
)
