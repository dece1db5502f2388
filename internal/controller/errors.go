package controller

import (
	"errors"

	"bookease-be/internal/pkg/payment"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/service"
	"bookease-be/pkg/booking/cancellation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, cancellation.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrBookingForbidden),
		errors.Is(err, cancellation.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, payment.ErrInvalidSignature):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrServiceInactive),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStartInPast),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrUnknownProvider),
		errors.Is(err, payment.ErrMalformedPayload),
		errors.Is(err, cancellation.ErrAlreadyCancelled),
		errors.Is(err, cancellation.ErrNotCancellable):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func writeError(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		return ctx.Status(code).JSON(serverutils.ErrorResponseWithDetails(code, "Internal server error", err.Error()))
	}
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
}

func parseID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
