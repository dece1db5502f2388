// Package testdb provides an in-memory SQLite database and fixtures for tests.
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/model"
	"bookease-be/internal/repository/implementation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a private in-memory database with the schema migrated. A single
// connection is used, so transactions serialise the way row locks would.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:bookease_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, role entity.UserRole) *entity.User {
	t.Helper()

	now := time.Now().UTC()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, implementation.NewUserRepository(db).Create(context.Background(), user))
	return user
}

// CreateService stores an active 60 minute service.
func CreateService(t *testing.T, db *gorm.DB, price int64, hoursBefore, feePercentage int) *entity.Service {
	t.Helper()

	now := time.Now().UTC()
	svc := &entity.Service{
		Id:                        uuid.New(),
		Name:                      "Consultation " + uuid.NewString()[:4],
		Duration:                  60,
		Price:                     price,
		CancellationHoursBefore:   hoursBefore,
		CancellationFeePercentage: feePercentage,
		IsActive:                  true,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	require.NoError(t, implementation.NewServiceRepository(db).Create(context.Background(), svc))
	return svc
}

// CreateBooking stores a CONFIRMED, UNPAID booking starting at start. Each
// mutator adjusts it, in order, before it is written.
func CreateBooking(t *testing.T, db *gorm.DB, customer *entity.User, svc *entity.Service, start time.Time, mutate ...func(b *entity.Booking)) *entity.Booking {
	t.Helper()

	now := time.Now().UTC()
	start = start.UTC()
	booking := &entity.Booking{
		Id:            uuid.New(),
		CustomerId:    customer.Id,
		ServiceId:     svc.Id,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(svc.Duration) * time.Minute),
		Status:        entity.BookingStatusConfirmed,
		PaymentStatus: entity.PaymentStatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, m := range mutate {
		if m != nil {
			m(booking)
		}
	}
	require.NoError(t, implementation.NewBookingRepository(db).Create(context.Background(), booking))
	return booking
}

// Paid marks a booking as paid through a checkout session.
func Paid(sessionID string) func(b *entity.Booking) {
	return func(b *entity.Booking) {
		b.PaymentStatus = entity.PaymentStatusPaid
		b.PaymentProvider = "stripe"
		b.PaymentSessionId = &sessionID
	}
}
