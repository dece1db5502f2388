package cancellation

import (
	"time"

	"bookease-be/internal/entity"
)

// LateCancellationWindow is how close to the start a cancellation must be for
// the service's fee to apply. At exactly 24h the refund is still full.
const LateCancellationWindow = 24.0 // hours

// Decision is the result of evaluating the cancellation policy for one booking.
type Decision struct {
	// RefundAmount in minor units, always within [0, service price].
	RefundAmount int64
	// AttemptRefund is true only when the booking was paid through a provider
	// session we can refund against.
	AttemptRefund bool
	HoursBefore   float64
	Reason        entity.CancellationReason
}

// Evaluate decides whether actor may cancel booking at now and how much of the
// service price goes back to the customer. It performs no I/O.
//
// Rules are checked in order: an already cancelled booking is rejected for
// every actor, then customers may only cancel their own bookings, then
// completed bookings are rejected. There is no minimum notice; notice only
// affects the fee.
func Evaluate(booking *entity.Booking, service *entity.Service, actor entity.Actor, now time.Time) (Decision, error) {
	if booking.Status == entity.BookingStatusCancelled {
		return Decision{}, ErrAlreadyCancelled
	}
	if !actor.IsAdmin() && booking.CustomerId != actor.Id {
		return Decision{}, ErrUnauthorized
	}
	if booking.Status == entity.BookingStatusCompleted {
		return Decision{}, ErrNotCancellable
	}

	decision := Decision{
		HoursBefore: booking.StartTime.Sub(now).Hours(),
		Reason:      entity.CancellationReasonCustomerRequest,
	}
	if actor.IsAdmin() {
		decision.Reason = entity.CancellationReasonAdminCancelled
	}

	if booking.PaymentStatus != entity.PaymentStatusPaid || !booking.HasPaymentSession() {
		return decision, nil
	}

	decision.AttemptRefund = true
	decision.RefundAmount = RefundAmount(service.Price, service.CancellationFeePercentage, decision.HoursBefore)
	return decision, nil
}

// RefundAmount applies the late-cancellation fee to price. The fee is
// feePercentage of price rounded half up to a whole minor unit.
func RefundAmount(price int64, feePercentage int, hoursBefore float64) int64 {
	if price <= 0 {
		return 0
	}
	if hoursBefore >= LateCancellationWindow {
		return price
	}

	pct := int64(min(max(feePercentage, 0), 100))
	fee := (price*pct + 50) / 100

	return min(max(price-fee, 0), price)
}
