package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"bookease-be/pkg/booking/cancellation"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeGateway struct {
	api             *client.API
	currency        string
	webhookSecret   string
	verifySignature bool
}

// NewStripeGateway builds the Stripe adapter. Signature verification is skipped
// when verifySignature is false, which is only meant for local development.
func NewStripeGateway(secretKey, webhookSecret, currency string, verifySignature bool) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api:             api,
		currency:        currency,
		webhookSecret:   webhookSecret,
		verifySignature: verifySignature,
	}
}

func (g *StripeGateway) Name() string {
	return ProviderStripe
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.ServiceName),
	}
	if req.Description != "" {
		product.Description = stripe.String(req.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.BookingId.String()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(g.currency),
					UnitAmount:  stripe.Int64(req.Amount),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("bookingId", req.BookingId.String())
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutSession{SessionId: session.ID, RedirectURL: session.URL}, nil
}

// IssueRefund resolves the session's payment intent and refunds amount of it.
// The idempotency key makes retries for the same booking return the first refund.
func (g *StripeGateway) IssueRefund(ctx context.Context, req cancellation.RefundRequest) (string, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx

	session, err := g.api.CheckoutSessions.Get(req.SessionId, getParams)
	if err != nil {
		return "", fmt.Errorf("stripe: retrieve checkout session: %w", err)
	}
	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		return "", fmt.Errorf("stripe: checkout session %s has no payment intent", req.SessionId)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(session.PaymentIntent.ID),
		Amount:        stripe.Int64(req.Amount),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.AddMetadata("bookingId", req.BookingId.String())
	params.AddMetadata("source", "booking_cancellation")
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.Context = ctx

	refund, err := g.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create refund: %w", err)
	}
	return refund.ID, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	var event stripe.Event
	if g.verifySignature {
		var err error
		event, err = webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	result := &WebhookEvent{
		Provider:  ProviderStripe,
		EventId:   event.ID,
		EventType: string(event.Type),
		Outcome:   OutcomeIgnored,
		Raw:       payload,
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
	default:
		return result, nil
	}

	if event.Data == nil {
		return nil, ErrMalformedPayload
	}
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	result.SessionId = session.ID

	switch {
	case event.Type == stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		result.Outcome = OutcomeFailed
	case session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		result.Outcome = OutcomePaid
	}
	return result, nil
}
