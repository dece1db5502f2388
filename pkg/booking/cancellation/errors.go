package cancellation

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrUnauthorized     = errors.New("not allowed to cancel this booking")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotCancellable   = errors.New("completed bookings cannot be cancelled")
	ErrInternal         = errors.New("failed to cancel booking")
)

func internalError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, step, err)
}

// outcomeLabel maps a Cancel result onto the metrics label set.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "cancelled"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrAlreadyCancelled):
		return "already_cancelled"
	case errors.Is(err, ErrNotCancellable):
		return "not_cancellable"
	default:
		return "error"
	}
}
