package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrServiceNotFound    = errors.New("service not found")
	ErrServiceInactive    = errors.New("service is not available for booking")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingForbidden   = errors.New("not allowed to access this booking")
	ErrInvalidTransition  = errors.New("booking cannot move to the requested state")
	ErrStartInPast        = errors.New("start time must be in the future")
	ErrAlreadyPaid        = errors.New("booking is already paid")
	ErrUnknownProvider    = errors.New("unknown payment provider")
)
