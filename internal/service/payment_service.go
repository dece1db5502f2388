package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/pkg/metrics"
	"bookease-be/internal/pkg/payment"
	"bookease-be/internal/repository/contract"
	"bookease-be/internal/repository/memory"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"
	bookingEvents "bookease-be/pkg/booking/events"

	"github.com/google/uuid"
)

type IPaymentService interface {
	CreateCheckout(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*dto.CheckoutResponse, error)
	// HandleWebhook applies a provider notification. Redeliveries of an event
	// that was already applied are accepted and ignored.
	HandleWebhook(ctx context.Context, provider string, payload []byte, signature string) error
}

type paymentService struct {
	uowFactory  unitofwork.RepositoryFactory
	checkout    payment.Gateway
	gateways    map[string]payment.Gateway
	idempotency memory.IdempotencyStore
	queue       IPublisherService
	events      bookingEvents.Publisher
	stats       *memory.StatsCache
	successURL  string
	cancelURL   string
	logger      logger.ILogger
}

type PaymentServiceConfig struct {
	SuccessURL string
	CancelURL  string
}

// NewPaymentService uses checkout for new sessions. Webhooks are accepted from
// any gateway in webhookGateways, so sessions opened before a provider switch
// still settle.
func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	checkout payment.Gateway,
	webhookGateways []payment.Gateway,
	idempotency memory.IdempotencyStore,
	queue IPublisherService,
	events bookingEvents.Publisher,
	stats *memory.StatsCache,
	cfg PaymentServiceConfig,
	logger logger.ILogger,
) IPaymentService {
	gateways := map[string]payment.Gateway{checkout.Name(): checkout}
	for _, g := range webhookGateways {
		gateways[g.Name()] = g
	}

	return &paymentService{
		uowFactory:  uowFactory,
		checkout:    checkout,
		gateways:    gateways,
		idempotency: idempotency,
		queue:       queue,
		events:      events,
		stats:       stats,
		successURL:  cfg.SuccessURL,
		cancelURL:   cfg.CancelURL,
		logger:      logger,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOneWithDetails(ctx, specification.ByID{ID: bookingID})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.CustomerId != actor.Id {
		return nil, ErrBookingForbidden
	}
	if booking.PaymentStatus == entity.PaymentStatusPaid || booking.PaymentStatus == entity.PaymentStatusRefunded {
		return nil, ErrAlreadyPaid
	}
	if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if booking.Service == nil {
		return nil, ErrServiceNotFound
	}

	req := payment.CheckoutRequest{
		BookingId:   booking.Id,
		ServiceName: booking.Service.Name,
		Description: fmt.Sprintf("Appointment on %s", booking.StartTime.Format("Mon, 02 Jan 2006 15:04 MST")),
		Amount:      booking.Service.Price,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
	}
	if booking.Customer != nil {
		req.CustomerEmail = booking.Customer.Email
		req.CustomerFirst = booking.Customer.FirstName
		req.CustomerLast = booking.Customer.LastName
		if booking.Customer.Phone != nil {
			req.CustomerPhone = *booking.Customer.Phone
		}
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, err
	}

	booking.PaymentProvider = s.checkout.Name()
	booking.PaymentSessionId = &session.SessionId
	booking.UpdatedAt = time.Now().UTC()
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Checkout session created", map[string]interface{}{
		"bookingId": booking.Id.String(),
		"provider":  s.checkout.Name(),
		"sessionId": session.SessionId,
	})

	return &dto.CheckoutResponse{SessionId: session.SessionId, Url: session.RedirectURL}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, provider string, payload []byte, signature string) error {
	gateway, ok := s.gateways[provider]
	if !ok {
		return ErrUnknownProvider
	}

	event, err := gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.WebhooksReceived.WithLabelValues(provider, "rejected").Inc()
		return err
	}
	if event.Outcome == payment.OutcomeIgnored {
		metrics.WebhooksReceived.WithLabelValues(provider, "ignored").Inc()
		return nil
	}

	key := provider + ":" + event.EventId
	claimed, err := s.idempotency.Claim(ctx, key)
	if err != nil {
		// The unique payment_events row still guards against double handling.
		s.logger.Warn("PAYMENT", "Idempotency store unavailable", map[string]interface{}{"error": err.Error()})
		claimed = true
	}
	if !claimed {
		metrics.WebhooksReceived.WithLabelValues(provider, "duplicate").Inc()
		return nil
	}

	booking, applied, err := s.applyWebhook(ctx, event)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, key); relErr != nil {
			s.logger.Warn("PAYMENT", "Failed to release idempotency key", map[string]interface{}{"key": key, "error": relErr.Error()})
		}
		metrics.WebhooksReceived.WithLabelValues(provider, "failed").Inc()
		return err
	}
	if !applied {
		metrics.WebhooksReceived.WithLabelValues(provider, "duplicate").Inc()
		return nil
	}
	metrics.WebhooksReceived.WithLabelValues(provider, "applied").Inc()

	if booking == nil {
		return nil
	}
	s.stats.Flush()

	switch event.Outcome {
	case payment.OutcomePaid:
		if err := s.queue.PublishNotification(ctx, dto.BookingNotificationMessage{
			BookingId: booking.Id,
			Kind:      dto.NotificationKindConfirmed,
		}); err != nil {
			s.logger.Error("PAYMENT", "Failed to queue confirmation", map[string]interface{}{"bookingId": booking.Id.String(), "error": err.Error()})
		}
		s.events.PublishBookingConfirmed(ctx, booking, provider)
	case payment.OutcomeFailed:
		s.events.PublishPaymentFailed(ctx, booking, provider)
	}
	return nil
}

// applyWebhook records the event and updates the booking in one transaction.
// applied is false when the event row already existed. The returned booking is
// nil when the event changed nothing.
func (s *paymentService) applyWebhook(ctx context.Context, event *payment.WebhookEvent) (booking *entity.Booking, applied bool, err error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	booking, err = uow.BookingRepository().FindOneWithDetails(ctx,
		specification.BookingBySession{SessionID: event.SessionId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, false, err
	}

	record := &entity.PaymentEvent{
		Id:         uuid.New(),
		Provider:   event.Provider,
		EventId:    event.EventId,
		EventType:  event.EventType,
		Payload:    event.Raw,
		ReceivedAt: time.Now().UTC(),
	}
	if booking != nil {
		record.BookingId = &booking.Id
	}
	if err := uow.PaymentEventRepository().Create(ctx, record); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if booking == nil {
		s.logger.Warn("PAYMENT", "Webhook for unknown session", map[string]interface{}{
			"provider":  event.Provider,
			"sessionId": event.SessionId,
		})
		return nil, true, uow.Commit()
	}

	if !applyPaymentOutcome(booking, event.Outcome) {
		s.logger.Warn("PAYMENT", "Webhook does not change booking", map[string]interface{}{
			"bookingId":     booking.Id.String(),
			"status":        string(booking.Status),
			"paymentStatus": string(booking.PaymentStatus),
			"outcome":       string(event.Outcome),
		})
		return nil, true, uow.Commit()
	}

	booking.UpdatedAt = time.Now().UTC()
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, false, err
	}
	if err := uow.Commit(); err != nil {
		return nil, false, err
	}

	s.logger.Info("PAYMENT", "Booking payment updated", map[string]interface{}{
		"bookingId":     booking.Id.String(),
		"paymentStatus": string(booking.PaymentStatus),
		"eventId":       event.EventId,
	})
	return booking, true, nil
}

// applyPaymentOutcome mutates booking for outcome and reports whether anything
// changed. Cancelled and refunded bookings are never touched.
func applyPaymentOutcome(booking *entity.Booking, outcome payment.Outcome) bool {
	if booking.Status == entity.BookingStatusCancelled || booking.PaymentStatus == entity.PaymentStatusRefunded {
		return false
	}

	switch outcome {
	case payment.OutcomePaid:
		if booking.PaymentStatus == entity.PaymentStatusPaid {
			return false
		}
		booking.PaymentStatus = entity.PaymentStatusPaid
		if booking.Status == entity.BookingStatusPending {
			booking.Status = entity.BookingStatusConfirmed
		}
		return true
	case payment.OutcomeFailed:
		if booking.PaymentStatus != entity.PaymentStatusUnpaid {
			return false
		}
		booking.PaymentStatus = entity.PaymentStatusFailed
		return true
	}
	return false
}
