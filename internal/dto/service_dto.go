package dto

import (
	"time"

	"github.com/google/uuid"
)

type ServiceRequest struct {
	Name                      string `json:"name" validate:"required,max=255"`
	Description               string `json:"description"`
	Duration                  int    `json:"duration" validate:"required,min=5,max=1440"`
	Price                     int64  `json:"price" validate:"min=0"`
	CancellationHoursBefore   int    `json:"cancellationHoursBefore" validate:"min=0"`
	CancellationFeePercentage int    `json:"cancellationFeePercentage" validate:"min=0,max=100"`
	IsActive                  *bool  `json:"isActive"`
}

// ServiceResponse reports price in minor units.
type ServiceResponse struct {
	Id                        uuid.UUID `json:"id"`
	Name                      string    `json:"name"`
	Description               string    `json:"description"`
	Duration                  int       `json:"duration"`
	Price                     int64     `json:"price"`
	CancellationHoursBefore   int       `json:"cancellationHoursBefore"`
	CancellationFeePercentage int       `json:"cancellationFeePercentage"`
	IsActive                  bool      `json:"isActive"`
	CreatedAt                 time.Time `json:"createdAt"`
}
