package unitofwork

import (
	"context"

	"bookease-be/internal/repository/contract"
)

// UnitOfWork groups repository calls. Between Begin and Commit/Rollback every
// repository it hands out runs inside the same database transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ServiceRepository() contract.ServiceRepository
	BookingRepository() contract.BookingRepository
	PaymentEventRepository() contract.PaymentEventRepository
}
