package mapper

import (
	"bookease-be/internal/entity"
	"bookease-be/internal/model"
)

type BookingMapper struct {
	users    *UserMapper
	services *ServiceMapper
}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{
		users:    NewUserMapper(),
		services: NewServiceMapper(),
	}
}

func (m *BookingMapper) ToEntity(b *model.Booking) *entity.Booking {
	if b == nil {
		return nil
	}

	var reason *entity.CancellationReason
	if b.CancellationReason != nil {
		r := entity.CancellationReason(*b.CancellationReason)
		reason = &r
	}

	return &entity.Booking{
		Id:                 b.Id,
		CustomerId:         b.CustomerId,
		ServiceId:          b.ServiceId,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Notes:              b.Notes,
		Status:             entity.BookingStatus(b.Status),
		PaymentStatus:      entity.PaymentStatus(b.PaymentStatus),
		PaymentProvider:    b.PaymentProvider,
		PaymentSessionId:   b.PaymentSessionId,
		RefundReference:    b.RefundReference,
		CancelledBy:        b.CancelledBy,
		CancelledAt:        b.CancelledAt,
		CancellationReason: reason,
		RefundAmount:       b.RefundAmount,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		Service:            m.services.ToEntity(b.Service),
		Customer:           m.users.ToEntity(b.Customer),
	}
}

// ToModel maps the booking columns only. Relations are never written through
// a booking.
func (m *BookingMapper) ToModel(b *entity.Booking) *model.Booking {
	if b == nil {
		return nil
	}

	var reason *string
	if b.CancellationReason != nil {
		r := string(*b.CancellationReason)
		reason = &r
	}

	return &model.Booking{
		Id:                 b.Id,
		CustomerId:         b.CustomerId,
		ServiceId:          b.ServiceId,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Notes:              b.Notes,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentProvider:    b.PaymentProvider,
		PaymentSessionId:   b.PaymentSessionId,
		RefundReference:    b.RefundReference,
		CancelledBy:        b.CancelledBy,
		CancelledAt:        b.CancelledAt,
		CancellationReason: reason,
		RefundAmount:       b.RefundAmount,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (m *BookingMapper) ToEntities(bookings []*model.Booking) []*entity.Booking {
	entities := make([]*entity.Booking, len(bookings))
	for i, b := range bookings {
		entities[i] = m.ToEntity(b)
	}
	return entities
}

func (m *BookingMapper) PaymentEventToModel(e *entity.PaymentEvent) *model.PaymentEvent {
	if e == nil {
		return nil
	}
	return &model.PaymentEvent{
		Id:         e.Id,
		Provider:   e.Provider,
		EventId:    e.EventId,
		EventType:  e.EventType,
		BookingId:  e.BookingId,
		Payload:    e.Payload,
		ReceivedAt: e.ReceivedAt,
	}
}

func (m *BookingMapper) PaymentEventToEntity(e *model.PaymentEvent) *entity.PaymentEvent {
	if e == nil {
		return nil
	}
	return &entity.PaymentEvent{
		Id:         e.Id,
		Provider:   e.Provider,
		EventId:    e.EventId,
		EventType:  e.EventType,
		BookingId:  e.BookingId,
		Payload:    e.Payload,
		ReceivedAt: e.ReceivedAt,
	}
}
