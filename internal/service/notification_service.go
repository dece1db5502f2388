package service

import (
	"context"
	"fmt"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/pkg/mailer"
	"bookease-be/internal/pkg/metrics"
	"bookease-be/internal/pkg/sms"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// INotificationService sends booking emails and admin alerts. It satisfies
// cancellation.Notifier.
type INotificationService interface {
	SendCustomerCancelled(ctx context.Context, booking *entity.Booking) error
	SendAdminCancellationNotice(ctx context.Context, booking *entity.Booking) error
	Deliver(ctx context.Context, msg dto.BookingNotificationMessage) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	email      mailer.IEmailService
	sms        sms.ISender
	adminPhone string
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	email mailer.IEmailService,
	smsSender sms.ISender,
	adminPhone string,
	logger logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		email:      email,
		sms:        smsSender,
		adminPhone: adminPhone,
		logger:     logger,
	}
}

func (s *notificationService) SendCustomerCancelled(ctx context.Context, booking *entity.Booking) error {
	if booking.Customer == nil {
		return fmt.Errorf("booking %s has no customer loaded", booking.Id)
	}
	data := toBookingEmail(booking)
	return runWithContext(ctx, func() error {
		return s.email.SendBookingCancelled(booking.Customer.Email, data)
	})
}

// SendAdminCancellationNotice mails every admin and texts the alert phone when
// one is configured.
func (s *notificationService) SendAdminCancellationNotice(ctx context.Context, booking *entity.Booking) error {
	admins, err := s.adminEmails(ctx)
	if err != nil {
		return err
	}

	data := toBookingEmail(booking)
	var errs error
	for _, to := range admins {
		errs = multierr.Append(errs, runWithContext(ctx, func() error {
			return s.email.SendAdminCancellationNotice(to, data)
		}))
	}

	if s.adminPhone != "" {
		body := fmt.Sprintf("Booking %s for %s on %s was cancelled by the %s.",
			shortID(booking.Id), data.ServiceName, booking.StartTime.Format("02 Jan 15:04"), data.CancelledBy)
		errs = multierr.Append(errs, runWithContext(ctx, func() error {
			return s.sms.Send(s.adminPhone, body)
		}))
	}
	return errs
}

// Deliver handles one queued notification. Missing bookings are not an error.
func (s *notificationService) Deliver(ctx context.Context, msg dto.BookingNotificationMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOneWithDetails(ctx, specification.ByID{ID: msg.BookingId})
	if err != nil {
		return err
	}
	if booking == nil || booking.Customer == nil {
		s.logger.Warn("NOTIFICATION", "Booking for notification not found", map[string]interface{}{"bookingId": msg.BookingId.String()})
		return nil
	}

	data := toBookingEmail(booking)
	data.PreviousStart = msg.PreviousStart

	var sendErr error
	switch msg.Kind {
	case dto.NotificationKindConfirmed:
		sendErr = s.email.SendBookingConfirmation(booking.Customer.Email, data)
		admins, err := s.adminEmails(ctx)
		if err != nil {
			return multierr.Append(sendErr, err)
		}
		for _, to := range admins {
			sendErr = multierr.Append(sendErr, s.email.SendAdminNewBooking(to, data))
		}
	case dto.NotificationKindApproved:
		sendErr = s.email.SendBookingApproved(booking.Customer.Email, data)
	case dto.NotificationKindRescheduled:
		sendErr = s.email.SendBookingRescheduled(booking.Customer.Email, data)
	default:
		s.logger.Warn("NOTIFICATION", "Unknown notification kind", map[string]interface{}{"kind": msg.Kind})
		return nil
	}

	if sendErr != nil {
		metrics.NotificationsFailed.WithLabelValues(msg.Kind).Inc()
	}
	return sendErr
}

func (s *notificationService) adminEmails(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	admins, err := uow.UserRepository().FindAll(ctx, specification.ByRole{Role: string(entity.UserRoleAdmin)})
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}

	emails := make([]string, 0, len(admins))
	for _, a := range admins {
		emails = append(emails, a.Email)
	}
	return emails, nil
}

// runWithContext stops waiting on fn once ctx is done. fn keeps running in the
// background; SMTP and Twilio calls have their own timeouts.
func runWithContext(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toBookingEmail(b *entity.Booking) mailer.BookingEmail {
	data := mailer.BookingEmail{
		BookingId:    shortID(b.Id),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		RefundAmount: b.RefundAmount,
		Refunded:     b.PaymentStatus == entity.PaymentStatusRefunded,
		Notes:        b.Notes,
	}
	if b.Customer != nil {
		data.CustomerName = b.Customer.FullName()
		data.CustomerEmail = b.Customer.Email
	}
	if b.Service != nil {
		data.ServiceName = b.Service.Name
		data.Price = b.Service.Price
	}
	if b.CancelledBy != nil {
		data.CancelledBy = "customer"
		if *b.CancelledBy != b.CustomerId {
			data.CancelledBy = "admin"
		}
	}
	if b.CancellationReason != nil {
		data.Reason = string(*b.CancellationReason)
	}
	return data
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
