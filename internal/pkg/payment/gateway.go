package payment

import (
	"context"
	"errors"

	"bookease-be/pkg/booking/cancellation"

	"github.com/google/uuid"
)

const (
	ProviderStripe   = "stripe"
	ProviderMidtrans = "midtrans"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

type CheckoutRequest struct {
	BookingId     uuid.UUID
	ServiceName   string
	Description   string
	Amount        int64
	CustomerEmail string
	CustomerFirst string
	CustomerLast  string
	CustomerPhone string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	SessionId   string
	RedirectURL string
}

type Outcome string

const (
	OutcomePaid    Outcome = "paid"
	OutcomeFailed  Outcome = "failed"
	OutcomeIgnored Outcome = "ignored"
)

// WebhookEvent is a provider notification reduced to what bookings care about.
type WebhookEvent struct {
	Provider  string
	EventId   string
	EventType string
	SessionId string
	Outcome   Outcome
	Raw       []byte
}

// Gateway is a hosted-checkout payment provider.
type Gateway interface {
	cancellation.RefundIssuer

	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook authenticates and decodes a provider notification.
	// signature is the provider's signature header, if it uses one.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
