package implementation

import (
	"context"
	"errors"

	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/model"
	"bookease-be/internal/repository/contract"
	"bookease-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServiceMapper
}

func NewServiceRepository(db *gorm.DB) contract.ServiceRepository {
	return &ServiceRepositoryImpl{
		db:     db,
		mapper: mapper.NewServiceMapper(),
	}
}

func (r *ServiceRepositoryImpl) Create(ctx context.Context, service *entity.Service) error {
	m := r.mapper.ToModel(service)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*service = *r.mapper.ToEntity(m)
	return nil
}

func (r *ServiceRepositoryImpl) Update(ctx context.Context, service *entity.Service) error {
	// Explicit columns so zero values (is_active=false, fee 0) are written.
	res := r.db.WithContext(ctx).Model(&model.Service{}).
		Where("id = ?", service.Id).
		Select("name", "description", "duration", "price", "cancellation_hours_before", "cancellation_fee_percentage", "is_active").
		Updates(r.mapper.ToModel(service))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ServiceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Service{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ServiceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Service, error) {
	var m model.Service
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ServiceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Service, error) {
	var models []*model.Service
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
