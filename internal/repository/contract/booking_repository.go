package contract

import (
	"context"
	"errors"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/repository/specification"

	"github.com/google/uuid"
)

var ErrDuplicate = errors.New("duplicate record")

// ServiceTotal is one row of the per-service booking aggregate.
type ServiceTotal struct {
	ServiceId    uuid.UUID
	ServiceName  string
	BookingCount int64
	Revenue      int64
}

// CustomerTotal is one row of the per-customer spending aggregate over paid bookings.
type CustomerTotal struct {
	CustomerId   uuid.UUID
	BookingCount int64
	TotalSpent   int64
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	// Update writes every mutable column of the booking in one statement.
	Update(ctx context.Context, booking *entity.Booking) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	// FindOneWithDetails preloads Service (including soft-deleted ones) and Customer.
	FindOneWithDetails(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountDistinctCustomers(ctx context.Context, specs ...specification.Specification) (int64, error)

	// CompleteEnded moves CONFIRMED bookings whose end time is before now to COMPLETED.
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)

	SumServicePrice(ctx context.Context, specs ...specification.Specification) (int64, error)
	SumRefundAmount(ctx context.Context, specs ...specification.Specification) (int64, error)
	TotalsByService(ctx context.Context, limit int) ([]ServiceTotal, error)
	TotalsByCustomer(ctx context.Context) ([]CustomerTotal, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type PaymentEventRepository interface {
	// Create returns ErrDuplicate when the provider event was already recorded.
	Create(ctx context.Context, event *entity.PaymentEvent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentEvent, error)
}
