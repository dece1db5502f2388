package cancellation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/pkg/metrics"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const logModule = "CANCELLATION"

// RefundRequest describes one refund against a provider checkout session.
type RefundRequest struct {
	BookingId      uuid.UUID
	SessionId      string
	Amount         int64
	IdempotencyKey string
}

// RefundIssuer talks to the payment provider. It returns the provider's
// reference for the refund.
type RefundIssuer interface {
	IssueRefund(ctx context.Context, req RefundRequest) (string, error)
}

// RefundIssuers holds one issuer per payment provider name. A booking is
// refunded through the provider it was paid with.
type RefundIssuers map[string]RefundIssuer

// Notifier delivers the two cancellation notices. The booking passed in is the
// committed state, with Service and Customer loaded.
type Notifier interface {
	SendCustomerCancelled(ctx context.Context, booking *entity.Booking) error
	SendAdminCancellationNotice(ctx context.Context, booking *entity.Booking) error
}

// EventPublisher emits domain events. Implementations must not fail the caller.
type EventPublisher interface {
	PublishBookingCancelled(ctx context.Context, booking *entity.Booking, actor entity.Actor, refundProcessed bool)
}

type Config struct {
	RefundTimeout time.Duration
	NotifyTimeout time.Duration
	Now           func() time.Time
}

// Outcome is what a successful cancellation reports back.
type Outcome struct {
	BookingId       uuid.UUID
	Cancelled       bool
	RefundProcessed bool
	RefundAmount    int64
	RefundReference *string
	Warnings        []string
}

func (o *Outcome) Warning() string {
	return strings.Join(o.Warnings, "; ")
}

// Orchestrator runs the cancellation workflow: lock, decide, refund, persist,
// then notify.
type Orchestrator struct {
	uowFactory unitofwork.RepositoryFactory
	refunds    RefundIssuers
	notifier   Notifier
	publisher  EventPublisher
	logger     logger.ILogger
	cfg        Config
	tracer     trace.Tracer
}

func NewOrchestrator(
	uowFactory unitofwork.RepositoryFactory,
	refunds RefundIssuers,
	notifier Notifier,
	publisher EventPublisher,
	logger logger.ILogger,
	cfg Config,
) *Orchestrator {
	if cfg.RefundTimeout <= 0 {
		cfg.RefundTimeout = 5 * time.Second
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 15 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Orchestrator{
		uowFactory: uowFactory,
		refunds:    refunds,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
		tracer:     otel.Tracer("bookease/cancellation"),
	}
}

// Cancel cancels bookingID on behalf of actor.
//
// The booking row is locked for the whole transaction, so concurrent calls for
// the same booking serialise and all but the first get ErrAlreadyCancelled.
// Refund and notification failures never fail the call; they come back as
// warnings on the Outcome.
func (o *Orchestrator) Cancel(ctx context.Context, bookingID uuid.UUID, actor entity.Actor) (result *Outcome, err error) {
	ctx, span := o.tracer.Start(ctx, "Orchestrator.Cancel", trace.WithAttributes(
		attribute.String("booking.id", bookingID.String()),
		attribute.String("actor.role", string(actor.Role)),
	))
	defer func() {
		metrics.BookingCancellations.WithLabelValues(string(actor.Role), outcomeLabel(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, internalError("begin transaction", err)
	}
	defer uow.Rollback()

	booking, err := uow.BookingRepository().FindOneWithDetails(ctx,
		specification.ByID{ID: bookingID},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, internalError("load booking", err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	if booking.Service == nil {
		return nil, internalError("load booking", fmt.Errorf("service %s missing", booking.ServiceId))
	}

	now := o.cfg.Now()
	decision, err := Evaluate(booking, booking.Service, actor, now)
	if err != nil {
		return nil, err
	}

	result = &Outcome{
		BookingId:    booking.Id,
		RefundAmount: decision.RefundAmount,
	}

	if decision.AttemptRefund && decision.RefundAmount > 0 {
		ref, refundErr := o.issueRefund(ctx, booking, decision.RefundAmount)
		if refundErr != nil {
			result.Warnings = append(result.Warnings, "refund could not be processed and needs manual follow-up")
		} else {
			result.RefundProcessed = true
			result.RefundReference = &ref
		}
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledBy = &actor.Id
	booking.CancelledAt = &now
	booking.CancellationReason = &decision.Reason
	booking.RefundAmount = decision.RefundAmount
	if result.RefundProcessed {
		booking.PaymentStatus = entity.PaymentStatusRefunded
		booking.RefundReference = result.RefundReference
	}

	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, internalError("update booking", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, internalError("commit", err)
	}
	result.Cancelled = true

	o.logger.Info(logModule, "Booking cancelled", map[string]interface{}{
		"bookingId":       booking.Id.String(),
		"actorId":         actor.Id.String(),
		"actorRole":       string(actor.Role),
		"hoursBefore":     decision.HoursBefore,
		"refundAmount":    decision.RefundAmount,
		"refundProcessed": result.RefundProcessed,
	})

	// The caller may be gone by now; the cancellation is committed and the
	// notices still go out.
	detached := context.WithoutCancel(ctx)
	if warning := o.notify(detached, booking); warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	if o.publisher != nil {
		o.publisher.PublishBookingCancelled(detached, booking, actor, result.RefundProcessed)
	}

	return result, nil
}

func (o *Orchestrator) issueRefund(ctx context.Context, booking *entity.Booking, amount int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.RefundTimeout)
	defer cancel()

	issuer, ok := o.refunds[booking.PaymentProvider]
	if !ok {
		err := fmt.Errorf("no refund issuer for provider %q", booking.PaymentProvider)
		metrics.RefundsIssued.WithLabelValues(booking.PaymentProvider, "failed").Inc()
		o.logger.Error(logModule, "Refund failed", map[string]interface{}{
			"bookingId": booking.Id.String(),
			"error":     err.Error(),
		})
		return "", err
	}

	ref, err := issuer.IssueRefund(ctx, RefundRequest{
		BookingId:      booking.Id,
		SessionId:      *booking.PaymentSessionId,
		Amount:         amount,
		IdempotencyKey: "booking-cancel-" + booking.Id.String(),
	})
	if err != nil {
		metrics.RefundsIssued.WithLabelValues(booking.PaymentProvider, "failed").Inc()
		o.logger.Error(logModule, "Refund failed", map[string]interface{}{
			"bookingId": booking.Id.String(),
			"sessionId": *booking.PaymentSessionId,
			"amount":    amount,
			"error":     err.Error(),
		})
		return "", err
	}

	metrics.RefundsIssued.WithLabelValues(booking.PaymentProvider, "succeeded").Inc()
	return ref, nil
}

// notify sends both notices concurrently and waits for both. It returns a
// warning describing every failure, or "" when all were delivered.
func (o *Orchestrator) notify(ctx context.Context, booking *entity.Booking) string {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.NotifyTimeout)
	defer cancel()

	errs := make([]error, 2)
	// Senders record failures in errs and always return nil.
	var g errgroup.Group
	g.Go(func() error {
		if err := o.notifier.SendCustomerCancelled(ctx, booking); err != nil {
			metrics.NotificationsFailed.WithLabelValues("customer_cancelled").Inc()
			errs[0] = fmt.Errorf("customer notification: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := o.notifier.SendAdminCancellationNotice(ctx, booking); err != nil {
			metrics.NotificationsFailed.WithLabelValues("admin_cancellation").Inc()
			errs[1] = fmt.Errorf("admin notification: %w", err)
		}
		return nil
	})
	_ = g.Wait()

	combined := multierr.Combine(errs...)
	if combined == nil {
		return ""
	}

	for _, err := range multierr.Errors(combined) {
		o.logger.Warn(logModule, "Cancellation notification failed", map[string]interface{}{
			"bookingId": booking.Id.String(),
			"error":     err.Error(),
		})
	}
	return fmt.Sprintf("booking cancelled but notifications failed: %v", combined)
}
