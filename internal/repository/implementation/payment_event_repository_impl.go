package implementation

import (
	"context"
	"errors"

	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/model"
	"bookease-be/internal/repository/contract"
	"bookease-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PaymentEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewPaymentEventRepository(db *gorm.DB) contract.PaymentEventRepository {
	return &PaymentEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookingMapper(),
	}
}

func (r *PaymentEventRepositoryImpl) Create(ctx context.Context, event *entity.PaymentEvent) error {
	m := r.mapper.PaymentEventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrDuplicate
		}
		return err
	}
	event.Id = m.Id
	event.ReceivedAt = m.ReceivedAt
	return nil
}

func (r *PaymentEventRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentEvent, error) {
	var m model.PaymentEvent
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PaymentEventToEntity(&m), nil
}
