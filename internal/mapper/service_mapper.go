package mapper

import (
	"bookease-be/internal/entity"
	"bookease-be/internal/model"
)

type ServiceMapper struct{}

func NewServiceMapper() *ServiceMapper {
	return &ServiceMapper{}
}

func (m *ServiceMapper) ToEntity(s *model.Service) *entity.Service {
	if s == nil {
		return nil
	}
	return &entity.Service{
		Id:                        s.Id,
		Name:                      s.Name,
		Description:               s.Description,
		Duration:                  s.Duration,
		Price:                     s.Price,
		CancellationHoursBefore:   s.CancellationHoursBefore,
		CancellationFeePercentage: s.CancellationFeePercentage,
		IsActive:                  s.IsActive,
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
	}
}

func (m *ServiceMapper) ToModel(s *entity.Service) *model.Service {
	if s == nil {
		return nil
	}
	return &model.Service{
		Id:                        s.Id,
		Name:                      s.Name,
		Description:               s.Description,
		Duration:                  s.Duration,
		Price:                     s.Price,
		CancellationHoursBefore:   s.CancellationHoursBefore,
		CancellationFeePercentage: s.CancellationFeePercentage,
		IsActive:                  s.IsActive,
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
	}
}

func (m *ServiceMapper) ToEntities(services []*model.Service) []*entity.Service {
	entities := make([]*entity.Service, len(services))
	for i, s := range services {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
