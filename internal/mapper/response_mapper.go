package mapper

import (
	"bookease-be/internal/dto"
	"bookease-be/internal/entity"

	"github.com/samber/lo"
)

// ToMajorUnits converts minor currency units for display.
func ToMajorUnits(amount int64) float64 {
	return float64(amount) / 100
}

func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Id:        u.Id,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
	}
}

func ToServiceResponse(s *entity.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		Id:                        s.Id,
		Name:                      s.Name,
		Description:               s.Description,
		Duration:                  s.Duration,
		Price:                     s.Price,
		CancellationHoursBefore:   s.CancellationHoursBefore,
		CancellationFeePercentage: s.CancellationFeePercentage,
		IsActive:                  s.IsActive,
		CreatedAt:                 s.CreatedAt,
	}
}

func ToServiceResponses(services []*entity.Service) []dto.ServiceResponse {
	return lo.Map(services, func(s *entity.Service, _ int) dto.ServiceResponse {
		return ToServiceResponse(s)
	})
}

func ToBookingResponse(b *entity.Booking) dto.BookingResponse {
	res := dto.BookingResponse{
		Id:            b.Id,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Notes:         b.Notes,
		RefundAmount:  b.RefundAmount,
		CancelledAt:   b.CancelledAt,
		CompletedAt:   b.CompletedAt,
		CreatedAt:     b.CreatedAt,
	}
	if b.CancellationReason != nil {
		res.CancellationReason = lo.ToPtr(string(*b.CancellationReason))
	}
	if b.Service != nil {
		res.Service = lo.ToPtr(ToServiceResponse(b.Service))
	}
	if b.Customer != nil {
		res.Customer = &dto.CustomerSummary{
			Id:        b.Customer.Id,
			Email:     b.Customer.Email,
			FirstName: b.Customer.FirstName,
			LastName:  b.Customer.LastName,
			Phone:     b.Customer.Phone,
		}
	}
	return res
}

func ToBookingResponses(bookings []*entity.Booking) []dto.BookingResponse {
	return lo.Map(bookings, func(b *entity.Booking, _ int) dto.BookingResponse {
		return ToBookingResponse(b)
	})
}
