package implementation_test

import (
	"context"
	"testing"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/testdb"
	"bookease-be/internal/repository/contract"
	"bookease-be/internal/repository/implementation"
	"bookease-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_CompleteEnded(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := implementation.NewBookingRepository(db)

	customer := testdb.CreateUser(t, db, entity.UserRoleCustomer)
	svc := testdb.CreateService(t, db, 5000, 24, 10)
	now := time.Now().UTC()

	ended := testdb.CreateBooking(t, db, customer, svc, now.Add(-3*time.Hour), nil)
	running := testdb.CreateBooking(t, db, customer, svc, now.Add(-30*time.Minute), nil)
	pendingEnded := testdb.CreateBooking(t, db, customer, svc, now.Add(-5*time.Hour), func(b *entity.Booking) {
		b.Status = entity.BookingStatusPending
	})

	count, err := repo.CompleteEnded(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.FindOne(ctx, specification.ByID{ID: ended.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	got, err = repo.FindOne(ctx, specification.ByID{ID: running.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, got.Status)

	got, err = repo.FindOne(ctx, specification.ByID{ID: pendingEnded.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, got.Status)

	count, err = repo.CompleteEnded(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBookingRepository_FindOneReturnsNilWhenMissing(t *testing.T) {
	db := testdb.New(t)
	repo := implementation.NewBookingRepository(db)

	got, err := repo.FindOne(context.Background(), specification.ByID{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookingRepository_DetailsIncludeDeletedService(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := implementation.NewBookingRepository(db)

	customer := testdb.CreateUser(t, db, entity.UserRoleCustomer)
	svc := testdb.CreateService(t, db, 7500, 24, 10)
	booking := testdb.CreateBooking(t, db, customer, svc, time.Now().Add(24*time.Hour), nil)
	require.NoError(t, implementation.NewServiceRepository(db).Delete(ctx, svc.Id))

	got, err := repo.FindOneWithDetails(ctx, specification.ByID{ID: booking.Id})
	require.NoError(t, err)
	require.NotNil(t, got.Service)
	assert.Equal(t, int64(7500), got.Service.Price)
	require.NotNil(t, got.Customer)
	assert.Equal(t, customer.Email, got.Customer.Email)
}

func TestBookingRepository_Aggregates(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := implementation.NewBookingRepository(db)

	alice := testdb.CreateUser(t, db, entity.UserRoleCustomer)
	bob := testdb.CreateUser(t, db, entity.UserRoleCustomer)
	haircut := testdb.CreateService(t, db, 3000, 24, 10)
	massage := testdb.CreateService(t, db, 9000, 24, 10)
	start := time.Now().UTC().Add(48 * time.Hour)

	testdb.CreateBooking(t, db, alice, haircut, start, testdb.Paid("cs_a1"))
	testdb.CreateBooking(t, db, alice, massage, start.Add(2*time.Hour), testdb.Paid("cs_a2"))
	testdb.CreateBooking(t, db, bob, haircut, start.Add(4*time.Hour), nil)
	testdb.CreateBooking(t, db, bob, haircut, start.Add(6*time.Hour), func(b *entity.Booking) {
		b.Status = entity.BookingStatusCancelled
		b.PaymentStatus = entity.PaymentStatusRefunded
		b.RefundAmount = 2700
	})

	revenue, err := repo.SumServicePrice(ctx, specification.BookingWithPaymentStatus{Status: string(entity.PaymentStatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), revenue)

	refunds, err := repo.SumRefundAmount(ctx, specification.BookingWithPaymentStatus{Status: string(entity.PaymentStatusRefunded)})
	require.NoError(t, err)
	assert.Equal(t, int64(2700), refunds)

	byStatus, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"CONFIRMED": 3, "CANCELLED": 1}, byStatus)

	active, err := repo.CountDistinctCustomers(ctx, specification.BookingWithStatus{Statuses: []string{"PENDING", "CONFIRMED"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), active)

	services, err := repo.TotalsByService(ctx, 5)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, haircut.Id, services[0].ServiceId)
	assert.Equal(t, int64(3), services[0].BookingCount)
	assert.Equal(t, int64(3000), services[0].Revenue)
	assert.Equal(t, int64(9000), services[1].Revenue)

	customers, err := repo.TotalsByCustomer(ctx)
	require.NoError(t, err)
	assert.Equal(t, []contract.CustomerTotal{{CustomerId: alice.Id, BookingCount: 2, TotalSpent: 12000}}, customers)
}
