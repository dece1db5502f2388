package implementation

import (
	"context"
	"errors"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/model"
	"bookease-be/internal/repository/contract"
	"bookease-be/internal/repository/specification"

	"gorm.io/gorm"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookingMapper(),
	}
}

func (r *BookingRepositoryImpl) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Service", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Customer")
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *entity.Booking) error {
	m := r.mapper.ToModel(booking)
	if err := r.db.WithContext(ctx).Omit("Service", "Customer").Create(m).Error; err != nil {
		return err
	}
	booking.Id = m.Id
	booking.CreatedAt = m.CreatedAt
	booking.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, booking *entity.Booking) error {
	m := r.mapper.ToModel(booking)
	res := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", booking.Id).
		Updates(map[string]interface{}{
			"start_time":          m.StartTime,
			"end_time":            m.EndTime,
			"notes":               m.Notes,
			"status":              m.Status,
			"payment_status":      m.PaymentStatus,
			"payment_provider":    m.PaymentProvider,
			"payment_session_id":  m.PaymentSessionId,
			"refund_reference":    m.RefundReference,
			"cancelled_by":        m.CancelledBy,
			"cancelled_at":        m.CancelledAt,
			"cancellation_reason": m.CancellationReason,
			"refund_amount":       m.RefundAmount,
			"completed_at":        m.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var m model.Booking
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) FindOneWithDetails(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var m model.Booking
	query := applySpecifications(r.withDetails(r.db.WithContext(ctx)), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var models []*model.Booking
	query := applySpecifications(r.withDetails(r.db.WithContext(ctx)), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Booking{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepositoryImpl) CountDistinctCustomers(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Booking{}), specs...)
	if err := query.Distinct("customer_id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepositoryImpl) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("status = ? AND end_time < ?", string(entity.BookingStatusConfirmed), now).
		Updates(map[string]interface{}{
			"status":       string(entity.BookingStatusCompleted),
			"completed_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *BookingRepositoryImpl) joinedWithServices(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("bookings").
		Joins("JOIN services ON services.id = bookings.service_id")
}

func (r *BookingRepositoryImpl) SumServicePrice(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var total int64
	query := applySpecifications(r.joinedWithServices(ctx), specs...)
	if err := query.Select("COALESCE(SUM(services.price), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookingRepositoryImpl) SumRefundAmount(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var total int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Booking{}), specs...)
	if err := query.Select("COALESCE(SUM(refund_amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookingRepositoryImpl) TotalsByService(ctx context.Context, limit int) ([]contract.ServiceTotal, error) {
	var rows []contract.ServiceTotal
	err := r.joinedWithServices(ctx).
		Select(`bookings.service_id AS service_id,
			services.name AS service_name,
			COUNT(bookings.id) AS booking_count,
			COALESCE(SUM(CASE WHEN bookings.payment_status = ? THEN services.price ELSE 0 END), 0) AS revenue`,
			string(entity.PaymentStatusPaid)).
		Group("bookings.service_id, services.name").
		Order("booking_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepositoryImpl) TotalsByCustomer(ctx context.Context) ([]contract.CustomerTotal, error) {
	var rows []contract.CustomerTotal
	err := r.joinedWithServices(ctx).
		Select(`bookings.customer_id AS customer_id,
			COUNT(bookings.id) AS booking_count,
			COALESCE(SUM(services.price), 0) AS total_spent`).
		Where("bookings.payment_status = ?", string(entity.PaymentStatusPaid)).
		Group("bookings.customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepositoryImpl) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
