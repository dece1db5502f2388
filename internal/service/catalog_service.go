package service

import (
	"context"
	"errors"
	"time"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/repository/memory"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ICatalogService interface {
	ListActive(ctx context.Context) ([]dto.ServiceResponse, error)
	ListAll(ctx context.Context) ([]dto.ServiceResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error)
	Create(ctx context.Context, req *dto.ServiceRequest) (*dto.ServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.ServiceRequest) (*dto.ServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CatalogCache
	logger     logger.ILogger
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory, cache *memory.CatalogCache, logger logger.ILogger) ICatalogService {
	return &catalogService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
	}
}

func (s *catalogService) ListActive(ctx context.Context) ([]dto.ServiceResponse, error) {
	if cached, ok := s.cache.GetActive(); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	services, err := uow.ServiceRepository().FindAll(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	res := mapper.ToServiceResponses(services)
	s.cache.SetActive(res)
	return res, nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]dto.ServiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	services, err := uow.ServiceRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	return mapper.ToServiceResponses(services), nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	res := mapper.ToServiceResponse(svc)
	return &res, nil
}

func (s *catalogService) Create(ctx context.Context, req *dto.ServiceRequest) (*dto.ServiceResponse, error) {
	now := time.Now().UTC()
	svc := &entity.Service{
		Id:                        uuid.New(),
		Name:                      req.Name,
		Description:               req.Description,
		Duration:                  req.Duration,
		Price:                     req.Price,
		CancellationHoursBefore:   req.CancellationHoursBefore,
		CancellationFeePercentage: req.CancellationFeePercentage,
		IsActive:                  req.IsActive == nil || *req.IsActive,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ServiceRepository().Create(ctx, svc); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	s.logger.Info("CATALOG", "Service created", map[string]interface{}{"serviceId": svc.Id.String(), "name": svc.Name})

	res := mapper.ToServiceResponse(svc)
	return &res, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req *dto.ServiceRequest) (*dto.ServiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.Duration = req.Duration
	svc.Price = req.Price
	svc.CancellationHoursBefore = req.CancellationHoursBefore
	svc.CancellationFeePercentage = req.CancellationFeePercentage
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := uow.ServiceRepository().Update(ctx, svc); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	s.cache.Invalidate()

	res := mapper.ToServiceResponse(svc)
	return &res, nil
}

// Delete soft-deletes the service. Existing bookings keep their reference.
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ServiceRepository().Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotFound
		}
		return err
	}
	s.cache.Invalidate()

	s.logger.Info("CATALOG", "Service deleted", map[string]interface{}{"serviceId": id.String()})
	return nil
}
