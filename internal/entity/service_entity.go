package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable offering. Price is stored in minor currency units.
type Service struct {
	Id                        uuid.UUID
	Name                      string
	Description               string
	Duration                  int // minutes
	Price                     int64
	CancellationHoursBefore   int
	CancellationFeePercentage int
	IsActive                  bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
