package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	Id                        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name                      string         `gorm:"type:varchar(255);not null"`
	Description               string         `gorm:"type:text"`
	Duration                  int            `gorm:"not null"`
	Price                     int64          `gorm:"not null"`
	CancellationHoursBefore   int            `gorm:"not null"`
	CancellationFeePercentage int            `gorm:"not null"`
	IsActive                  bool           `gorm:"not null;index"`
	CreatedAt                 time.Time      `gorm:"autoCreateTime"`
	UpdatedAt                 time.Time      `gorm:"autoUpdateTime"`
	DeletedAt                 gorm.DeletedAt `gorm:"index"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}
