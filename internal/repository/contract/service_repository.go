package contract

import (
	"context"

	"bookease-be/internal/entity"
	"bookease-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Service, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Service, error)
}
