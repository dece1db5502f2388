package cancellation

import (
	"testing"
	"time"

	"bookease-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policyNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func paidBooking(customer uuid.UUID, start time.Time) *entity.Booking {
	session := "cs_test_123"
	return &entity.Booking{
		Id:               uuid.New(),
		CustomerId:       customer,
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Status:           entity.BookingStatusConfirmed,
		PaymentStatus:    entity.PaymentStatusPaid,
		PaymentSessionId: &session,
	}
}

func TestRefundAmount(t *testing.T) {
	tests := []struct {
		name        string
		price       int64
		fee         int
		hoursBefore float64
		want        int64
	}{
		{"late cancellation applies fee", 10000, 20, 5, 8000},
		{"exactly at window is full refund", 10000, 20, 24, 10000},
		{"just inside window applies fee", 10000, 20, 23.99, 8000},
		{"well ahead is full refund", 10000, 50, 72, 10000},
		{"zero fee is full refund", 10000, 0, 1, 10000},
		{"full fee refunds nothing", 10000, 100, 1, 0},
		{"fee rounds half up", 999, 15, 2, 849},
		{"start already passed", 5000, 10, -3, 4500},
		{"fee above 100 is clamped", 10000, 150, 1, 0},
		{"negative fee is clamped", 10000, -10, 1, 10000},
		{"free service", 0, 20, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefundAmount(tt.price, tt.fee, tt.hoursBefore))
		})
	}
}

func TestRefundAmount_NonIncreasingAsStartApproaches(t *testing.T) {
	for _, fee := range []int{0, 10, 25, 50, 99, 100} {
		prev := RefundAmount(10000, fee, 48)
		for h := 47.5; h >= -2; h -= 0.5 {
			got := RefundAmount(10000, fee, h)
			assert.LessOrEqual(t, got, prev, "fee=%d hours=%.1f", fee, h)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.LessOrEqual(t, got, int64(10000))
			prev = got
		}
	}
}

func TestEvaluate(t *testing.T) {
	customer := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	stranger := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	admin := entity.Actor{Id: uuid.New(), Role: entity.UserRoleAdmin}
	service := &entity.Service{Price: 10000, CancellationHoursBefore: 24, CancellationFeePercentage: 20}

	t.Run("owner late cancellation of paid booking", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(5*time.Hour))

		d, err := Evaluate(booking, service, customer, policyNow)
		require.NoError(t, err)
		assert.True(t, d.AttemptRefund)
		assert.Equal(t, int64(8000), d.RefundAmount)
		assert.InDelta(t, 5.0, d.HoursBefore, 0.0001)
		assert.Equal(t, entity.CancellationReasonCustomerRequest, d.Reason)
	})

	t.Run("admin gets admin reason and same refund", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(48*time.Hour))

		d, err := Evaluate(booking, service, admin, policyNow)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), d.RefundAmount)
		assert.Equal(t, entity.CancellationReasonAdminCancelled, d.Reason)
	})

	t.Run("unpaid booking refunds nothing", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(48*time.Hour))
		booking.PaymentStatus = entity.PaymentStatusUnpaid

		d, err := Evaluate(booking, service, customer, policyNow)
		require.NoError(t, err)
		assert.False(t, d.AttemptRefund)
		assert.Zero(t, d.RefundAmount)
	})

	t.Run("paid without session skips refund", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(48*time.Hour))
		booking.PaymentSessionId = nil

		d, err := Evaluate(booking, service, customer, policyNow)
		require.NoError(t, err)
		assert.False(t, d.AttemptRefund)
		assert.Zero(t, d.RefundAmount)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(48*time.Hour))

		_, err := Evaluate(booking, service, stranger, policyNow)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("already cancelled wins over ownership", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(48*time.Hour))
		booking.Status = entity.BookingStatusCancelled

		_, err := Evaluate(booking, service, stranger, policyNow)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		_, err = Evaluate(booking, service, admin, policyNow)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("completed booking is not cancellable", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(-48*time.Hour))
		booking.Status = entity.BookingStatusCompleted

		_, err := Evaluate(booking, service, admin, policyNow)
		assert.ErrorIs(t, err, ErrNotCancellable)
	})

	t.Run("no minimum notice is enforced", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(30*time.Minute))

		d, err := Evaluate(booking, service, customer, policyNow)
		require.NoError(t, err)
		assert.Equal(t, int64(8000), d.RefundAmount)
	})

	t.Run("pending booking can be cancelled", func(t *testing.T) {
		booking := paidBooking(customer.Id, policyNow.Add(30*time.Hour))
		booking.Status = entity.BookingStatusPending
		booking.PaymentStatus = entity.PaymentStatusUnpaid

		_, err := Evaluate(booking, service, customer, policyNow)
		assert.NoError(t, err)
	})
}
