package events

import (
	"context"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/logger"
	pkgEvents "bookease-be/pkg/events"
	pktNats "bookease-be/pkg/nats"
)

// Publisher emits booking lifecycle events. Publishing is best effort: failures
// are logged and never returned.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, booking *entity.Booking)
	PublishBookingConfirmed(ctx context.Context, booking *entity.Booking, source string)
	PublishBookingRescheduled(ctx context.Context, booking *entity.Booking, previousStart time.Time)
	PublishBookingCancelled(ctx context.Context, booking *entity.Booking, actor entity.Actor, refundProcessed bool)
	PublishBookingsCompleted(ctx context.Context, count int64, at time.Time)
	PublishPaymentFailed(ctx context.Context, booking *entity.Booking, provider string)
}

// NatsPublisher implements Publisher on JetStream. A nil underlying publisher
// turns every call into a no-op so the app runs without NATS.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) publish(ctx context.Context, eventType, msgID string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := p.publisher.Publish(ctx, evt, msgID); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func bookingData(b *entity.Booking) map[string]interface{} {
	return map[string]interface{}{
		"booking_id":     b.Id,
		"customer_id":    b.CustomerId,
		"service_id":     b.ServiceId,
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"entity_type":    "booking",
		"entity_id":      b.Id.String(),
	}
}

func (p *NatsPublisher) PublishBookingCreated(ctx context.Context, booking *entity.Booking) {
	p.publish(ctx, pkgEvents.BookingCreated, "created-"+booking.Id.String(), bookingData(booking))
}

func (p *NatsPublisher) PublishBookingConfirmed(ctx context.Context, booking *entity.Booking, source string) {
	data := bookingData(booking)
	data["source"] = source
	p.publish(ctx, pkgEvents.BookingConfirmed, "", data)
}

func (p *NatsPublisher) PublishBookingRescheduled(ctx context.Context, booking *entity.Booking, previousStart time.Time) {
	data := bookingData(booking)
	data["previous_start_time"] = previousStart
	p.publish(ctx, pkgEvents.BookingRescheduled, "", data)
}

func (p *NatsPublisher) PublishBookingCancelled(ctx context.Context, booking *entity.Booking, actor entity.Actor, refundProcessed bool) {
	data := bookingData(booking)
	data["cancelled_by"] = actor.Id
	data["cancelled_by_role"] = actor.Role
	data["refund_amount"] = booking.RefundAmount
	data["refund_processed"] = refundProcessed
	if booking.CancellationReason != nil {
		data["reason"] = *booking.CancellationReason
	}
	p.publish(ctx, pkgEvents.BookingCancelled, "cancelled-"+booking.Id.String(), data)
}

func (p *NatsPublisher) PublishBookingsCompleted(ctx context.Context, count int64, at time.Time) {
	p.publish(ctx, pkgEvents.BookingCompleted, "", map[string]interface{}{
		"count":        count,
		"completed_at": at,
	})
}

func (p *NatsPublisher) PublishPaymentFailed(ctx context.Context, booking *entity.Booking, provider string) {
	data := bookingData(booking)
	data["provider"] = provider
	p.publish(ctx, pkgEvents.BookingPaymentFailed, "", data)
}
