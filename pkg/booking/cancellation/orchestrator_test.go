package cancellation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/pkg/testdb"
	"bookease-be/internal/repository/implementation"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"
	"bookease-be/pkg/booking/cancellation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeRefunds struct {
	mu       sync.Mutex
	err      error
	requests []cancellation.RefundRequest
}

func (f *fakeRefunds) IssueRefund(_ context.Context, req cancellation.RefundRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return "re_" + req.BookingId.String()[:8], nil
}

type fakeNotifier struct {
	mu          sync.Mutex
	customerErr error
	adminErr    error
	customer    []*entity.Booking
	admin       []*entity.Booking
}

func (f *fakeNotifier) SendCustomerCancelled(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer = append(f.customer, b)
	return f.customerErr
}

func (f *fakeNotifier) SendAdminCancellationNotice(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = append(f.admin, b)
	return f.adminErr
}

type fakePublisher struct {
	mu        sync.Mutex
	cancelled []uuid.UUID
}

func (f *fakePublisher) PublishBookingCancelled(_ context.Context, b *entity.Booking, _ entity.Actor, _ bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, b.Id)
}

type fixture struct {
	db        *gorm.DB
	refunds   *fakeRefunds
	midtrans  *fakeRefunds
	notifier  *fakeNotifier
	publisher *fakePublisher
	orch      *cancellation.Orchestrator
	customer  *entity.User
	admin     *entity.User
	service   *entity.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	f := &fixture{
		db:        db,
		refunds:   &fakeRefunds{},
		midtrans:  &fakeRefunds{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		customer:  testdb.CreateUser(t, db, entity.UserRoleCustomer),
		admin:     testdb.CreateUser(t, db, entity.UserRoleAdmin),
		service:   testdb.CreateService(t, db, 10000, 24, 20),
	}
	f.orch = cancellation.NewOrchestrator(
		unitofwork.NewRepositoryFactory(db),
		cancellation.RefundIssuers{"stripe": f.refunds, "midtrans": f.midtrans},
		f.notifier,
		f.publisher,
		logger.NewNopLogger(),
		cancellation.Config{Now: func() time.Time { return fixedNow }},
	)
	return f
}

func (f *fixture) actor(u *entity.User) entity.Actor {
	return entity.Actor{Id: u.Id, Role: u.Role}
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *entity.Booking {
	t.Helper()
	b, err := implementation.NewBookingRepository(f.db).FindOne(context.Background(), specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func TestCancel_PaidLateCancellationRefundsWithFee(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(5*time.Hour), testdb.Paid("cs_late"))

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)

	assert.True(t, outcome.Cancelled)
	assert.True(t, outcome.RefundProcessed)
	assert.Equal(t, int64(8000), outcome.RefundAmount)
	assert.Empty(t, outcome.Warning())

	require.Len(t, f.refunds.requests, 1)
	req := f.refunds.requests[0]
	assert.Equal(t, "cs_late", req.SessionId)
	assert.Equal(t, int64(8000), req.Amount)
	assert.Equal(t, "booking-cancel-"+booking.Id.String(), req.IdempotencyKey)

	stored := f.reload(t, booking.Id)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	assert.Equal(t, entity.PaymentStatusRefunded, stored.PaymentStatus)
	assert.Equal(t, int64(8000), stored.RefundAmount)
	require.NotNil(t, stored.CancelledBy)
	assert.Equal(t, f.customer.Id, *stored.CancelledBy)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, entity.CancellationReasonCustomerRequest, *stored.CancellationReason)
	require.NotNil(t, stored.RefundReference)
	require.NotNil(t, stored.CancelledAt)
	assert.True(t, fixedNow.Equal(*stored.CancelledAt))

	assert.Len(t, f.notifier.customer, 1)
	assert.Len(t, f.notifier.admin, 1)
	assert.Equal(t, entity.BookingStatusCancelled, f.notifier.customer[0].Status)
	assert.Equal(t, []uuid.UUID{booking.Id}, f.publisher.cancelled)
}

func TestCancel_AdminEarlyCancellationRefundsInFull(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), testdb.Paid("cs_early"))

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.admin))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), outcome.RefundAmount)

	stored := f.reload(t, booking.Id)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, entity.CancellationReasonAdminCancelled, *stored.CancellationReason)
	assert.Equal(t, f.admin.Id, *stored.CancelledBy)
}

func TestCancel_UnpaidBookingSkipsRefund(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(2*time.Hour), nil)

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)

	assert.False(t, outcome.RefundProcessed)
	assert.Zero(t, outcome.RefundAmount)
	assert.Empty(t, f.refunds.requests)

	stored := f.reload(t, booking.Id)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	assert.Equal(t, entity.PaymentStatusUnpaid, stored.PaymentStatus)
}

func TestCancel_RefundFailureStillCancels(t *testing.T) {
	f := newFixture(t)
	f.refunds.err = errors.New("provider unavailable")
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(5*time.Hour), testdb.Paid("cs_fail"))

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)

	assert.True(t, outcome.Cancelled)
	assert.False(t, outcome.RefundProcessed)
	assert.Equal(t, int64(8000), outcome.RefundAmount)
	assert.Contains(t, outcome.Warning(), "refund")

	stored := f.reload(t, booking.Id)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	assert.Equal(t, entity.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, int64(8000), stored.RefundAmount)
	assert.Nil(t, stored.RefundReference)
}

func TestCancel_NotificationFailureIsAWarning(t *testing.T) {
	f := newFixture(t)
	f.notifier.customerErr = errors.New("smtp down")
	f.notifier.adminErr = errors.New("sms down")
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), nil)

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)

	assert.True(t, outcome.Cancelled)
	assert.Contains(t, outcome.Warning(), "smtp down")
	assert.Contains(t, outcome.Warning(), "sms down")
	assert.Len(t, f.notifier.customer, 1)
	assert.Len(t, f.notifier.admin, 1)
	assert.Equal(t, entity.BookingStatusCancelled, f.reload(t, booking.Id).Status)
}

func TestCancel_Rejections(t *testing.T) {
	f := newFixture(t)
	stranger := testdb.CreateUser(t, f.db, entity.UserRoleCustomer)

	t.Run("unknown booking", func(t *testing.T) {
		_, err := f.orch.Cancel(context.Background(), uuid.New(), f.actor(f.customer))
		assert.ErrorIs(t, err, cancellation.ErrNotFound)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), testdb.Paid("cs_other"))

		_, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(stranger))
		assert.ErrorIs(t, err, cancellation.ErrUnauthorized)

		stored := f.reload(t, booking.Id)
		assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
		assert.Equal(t, entity.PaymentStatusPaid, stored.PaymentStatus)
	})

	t.Run("already cancelled", func(t *testing.T) {
		cancelledAt := fixedNow.Add(-2 * time.Hour)
		booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), testdb.Paid("cs_done"), func(b *entity.Booking) {
			b.Status = entity.BookingStatusCancelled
			b.PaymentStatus = entity.PaymentStatusRefunded
			b.CancelledBy = &f.customer.Id
			b.CancelledAt = &cancelledAt
			b.RefundAmount = 10000
		})

		_, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.admin))
		assert.ErrorIs(t, err, cancellation.ErrAlreadyCancelled)

		stored := f.reload(t, booking.Id)
		assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
		assert.Equal(t, entity.PaymentStatusRefunded, stored.PaymentStatus)
		require.NotNil(t, stored.CancelledBy)
		assert.Equal(t, f.customer.Id, *stored.CancelledBy)
		require.NotNil(t, stored.CancelledAt)
		assert.WithinDuration(t, cancelledAt, *stored.CancelledAt, time.Second)
		assert.Equal(t, int64(10000), stored.RefundAmount)
	})

	t.Run("completed", func(t *testing.T) {
		booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(-48*time.Hour), func(b *entity.Booking) {
			b.Status = entity.BookingStatusCompleted
		})

		_, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
		assert.ErrorIs(t, err, cancellation.ErrNotCancellable)
	})

	assert.Empty(t, f.refunds.requests)
	assert.Empty(t, f.notifier.customer)
}

func TestCancel_SoftDeletedServiceStillResolves(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(5*time.Hour), testdb.Paid("cs_deleted"))
	require.NoError(t, implementation.NewServiceRepository(f.db).Delete(context.Background(), f.service.Id))

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)
	assert.Equal(t, int64(8000), outcome.RefundAmount)
}

func TestCancel_ConcurrentCallsCancelOnce(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), testdb.Paid("cs_race"))

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := f.actor(f.customer)
			if i%2 == 1 {
				actor = f.actor(f.admin)
			}
			_, errs[i] = f.orch.Cancel(context.Background(), booking.Id, actor)
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, cancellation.ErrAlreadyCancelled)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.refunds.requests, 1)
	assert.Len(t, f.notifier.customer, 1)
}

func TestCancel_RefundsThroughTheProviderThatTookPayment(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), testdb.Paid("order-123"), func(b *entity.Booking) {
		b.PaymentProvider = "midtrans"
	})

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)
	assert.True(t, outcome.RefundProcessed)

	assert.Empty(t, f.refunds.requests)
	require.Len(t, f.midtrans.requests, 1)
	assert.Equal(t, "order-123", f.midtrans.requests[0].SessionId)
	assert.Equal(t, int64(10000), f.midtrans.requests[0].Amount)
	assert.Equal(t, entity.PaymentStatusRefunded, f.reload(t, booking.Id).PaymentStatus)
}

func TestCancel_UnknownProviderLeavesRefundForFollowUp(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), testdb.Paid("pay-9"), func(b *entity.Booking) {
		b.PaymentProvider = "paypal"
	})

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.False(t, outcome.RefundProcessed)
	assert.Contains(t, outcome.Warning(), "manual follow-up")
	assert.Empty(t, f.refunds.requests)
	assert.Empty(t, f.midtrans.requests)

	stored := f.reload(t, booking.Id)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	assert.Equal(t, entity.PaymentStatusPaid, stored.PaymentStatus)
}

func TestCancel_WriteFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	booking := testdb.CreateBooking(t, f.db, f.customer, f.service, fixedNow.Add(48*time.Hour), nil)
	require.NoError(t, f.db.Exec(
		`CREATE TRIGGER bookings_read_only BEFORE UPDATE ON bookings BEGIN SELECT RAISE(ABORT, 'bookings are read only'); END`,
	).Error)

	outcome, err := f.orch.Cancel(context.Background(), booking.Id, f.actor(f.customer))
	assert.Nil(t, outcome)
	require.ErrorIs(t, err, cancellation.ErrInternal)
	assert.Contains(t, err.Error(), "update booking")

	assert.Equal(t, entity.BookingStatusConfirmed, f.reload(t, booking.Id).Status)
	assert.Empty(t, f.notifier.customer)
	assert.Empty(t, f.publisher.cancelled)
}
