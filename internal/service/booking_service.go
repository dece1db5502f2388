package service

import (
	"context"
	"time"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/repository/memory"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"
	"bookease-be/pkg/booking/cancellation"
	bookingEvents "bookease-be/pkg/booking/events"

	"github.com/google/uuid"
)

// Canceller is the cancellation workflow as seen by the booking service.
type Canceller interface {
	Cancel(ctx context.Context, bookingID uuid.UUID, actor entity.Actor) (*cancellation.Outcome, error)
}

type IBookingService interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ListMine(ctx context.Context, actor entity.Actor) ([]dto.BookingResponse, error)
	ListAll(ctx context.Context, status string) ([]dto.BookingResponse, error)
	Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BookingResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, actor entity.Actor) (*cancellation.Outcome, error)
	CompleteEnded(ctx context.Context) (int64, error)
}

type bookingService struct {
	uowFactory unitofwork.RepositoryFactory
	canceller  Canceller
	queue      IPublisherService
	events     bookingEvents.Publisher
	stats      *memory.StatsCache
	logger     logger.ILogger
	now        func() time.Time
}

func NewBookingService(
	uowFactory unitofwork.RepositoryFactory,
	canceller Canceller,
	queue IPublisherService,
	events bookingEvents.Publisher,
	stats *memory.StatsCache,
	logger logger.ILogger,
) IBookingService {
	return &bookingService{
		uowFactory: uowFactory,
		canceller:  canceller,
		queue:      queue,
		events:     events,
		stats:      stats,
		logger:     logger,
		now:        time.Now,
	}
}

// Create books a service for the caller. A PENDING booking for the same
// service and start time is returned instead of creating a second one.
func (s *bookingService) Create(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	start := req.StartTime.UTC()
	if !start.After(s.now()) {
		return nil, ErrStartInPast
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: req.ServiceId})
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.BookingRepository().FindOneWithDetails(ctx,
		specification.BookingOwnedBy{CustomerID: actor.Id},
		specification.BookingForService{ServiceID: svc.Id},
		specification.BookingStartsAt{Time: start},
		specification.BookingWithStatus{Statuses: []string{string(entity.BookingStatusPending)}},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		res := mapper.ToBookingResponse(existing)
		return &res, nil
	}

	now := s.now().UTC()
	booking := &entity.Booking{
		Id:            uuid.New(),
		CustomerId:    actor.Id,
		ServiceId:     svc.Id,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(svc.Duration) * time.Minute),
		Notes:         req.Notes,
		Status:        entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
		Service:       svc,
	}
	if err := uow.BookingRepository().Create(ctx, booking); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.stats.Flush()
	s.events.PublishBookingCreated(ctx, booking)
	s.logger.Info("BOOKING", "Booking created", map[string]interface{}{
		"bookingId":  booking.Id.String(),
		"customerId": actor.Id.String(),
		"serviceId":  svc.Id.String(),
	})

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) ListMine(ctx context.Context, actor entity.Actor) ([]dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookings, err := uow.BookingRepository().FindAllWithDetails(ctx,
		specification.BookingOwnedBy{CustomerID: actor.Id},
		specification.OrderBy{Field: "start_time", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return mapper.ToBookingResponses(bookings), nil
}

func (s *bookingService) ListAll(ctx context.Context, status string) ([]dto.BookingResponse, error) {
	specs := []specification.Specification{specification.OrderBy{Field: "start_time", Desc: true}}
	if status != "" {
		specs = append(specs, specification.BookingWithStatus{Statuses: []string{status}})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookings, err := uow.BookingRepository().FindAllWithDetails(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapper.ToBookingResponses(bookings), nil
}

func (s *bookingService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOneWithDetails(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !actor.IsAdmin() && booking.CustomerId != actor.Id {
		return nil, ErrBookingForbidden
	}

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) Approve(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := s.transition(ctx, id, func(b *entity.Booking) error {
		if b.Status != entity.BookingStatusPending {
			return ErrInvalidTransition
		}
		b.Status = entity.BookingStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, dto.BookingNotificationMessage{BookingId: booking.Id, Kind: dto.NotificationKindApproved})
	s.events.PublishBookingConfirmed(ctx, booking, "admin_approval")

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

// MarkPaid records an offline payment: PAID and CONFIRMED.
func (s *bookingService) MarkPaid(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := s.transition(ctx, id, func(b *entity.Booking) error {
		if b.Status == entity.BookingStatusCancelled || b.Status == entity.BookingStatusCompleted {
			return ErrInvalidTransition
		}
		if b.PaymentStatus == entity.PaymentStatusPaid || b.PaymentStatus == entity.PaymentStatusRefunded {
			return ErrAlreadyPaid
		}
		b.PaymentStatus = entity.PaymentStatusPaid
		b.Status = entity.BookingStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, dto.BookingNotificationMessage{BookingId: booking.Id, Kind: dto.NotificationKindConfirmed})
	s.events.PublishBookingConfirmed(ctx, booking, "manual_payment")

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error) {
	start := req.StartTime.UTC()
	if !start.After(s.now()) {
		return nil, ErrStartInPast
	}

	var previousStart time.Time
	booking, err := s.transition(ctx, id, func(b *entity.Booking) error {
		if b.Status != entity.BookingStatusPending && b.Status != entity.BookingStatusConfirmed {
			return ErrInvalidTransition
		}
		if b.Service == nil {
			return ErrServiceNotFound
		}
		previousStart = b.StartTime
		b.StartTime = start
		b.EndTime = start.Add(time.Duration(b.Service.Duration) * time.Minute)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, dto.BookingNotificationMessage{
		BookingId:     booking.Id,
		Kind:          dto.NotificationKindRescheduled,
		PreviousStart: &previousStart,
	})
	s.events.PublishBookingRescheduled(ctx, booking, previousStart)

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID, actor entity.Actor) (*cancellation.Outcome, error) {
	outcome, err := s.canceller.Cancel(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	s.stats.Flush()
	return outcome, nil
}

// CompleteEnded marks every confirmed booking whose end time has passed as
// completed.
func (s *bookingService) CompleteEnded(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.BookingRepository().CompleteEnded(ctx, now)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.stats.Flush()
		s.events.PublishBookingsCompleted(ctx, count, now)
		s.logger.Info("BOOKING", "Completed ended bookings", map[string]interface{}{"count": count})
	}
	return count, nil
}

// transition loads the booking under a row lock, applies mutate and saves it.
func (s *bookingService) transition(ctx context.Context, id uuid.UUID, mutate func(b *entity.Booking) error) (*entity.Booking, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	booking, err := uow.BookingRepository().FindOneWithDetails(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if err := mutate(booking); err != nil {
		return nil, err
	}
	booking.UpdatedAt = s.now().UTC()

	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.stats.Flush()
	return booking, nil
}

func (s *bookingService) enqueue(ctx context.Context, msg dto.BookingNotificationMessage) {
	if err := s.queue.PublishNotification(ctx, msg); err != nil {
		s.logger.Error("BOOKING", "Failed to queue notification", map[string]interface{}{
			"bookingId": msg.BookingId.String(),
			"kind":      msg.Kind,
			"error":     err.Error(),
		})
	}
}
