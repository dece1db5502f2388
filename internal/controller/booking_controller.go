package controller

import (
	"bookease-be/internal/dto"
	"bookease-be/internal/mapper"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBookingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	ListAll(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	MarkPaid(ctx *fiber.Ctx) error
	Reschedule(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	CompleteEnded(ctx *fiber.Ctx) error
}

type bookingController struct {
	service service.IBookingService
	auth    fiber.Handler
}

func NewBookingController(service service.IBookingService, auth fiber.Handler) IBookingController {
	return &bookingController{service: service, auth: auth}
}

func (c *bookingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bookings", c.auth)
	h.Post("/", c.Create)
	h.Get("/user", c.ListMine)
	h.Get("/", serverutils.AdminOnly, c.ListAll)
	h.Post("/update-status", serverutils.AdminOnly, c.CompleteEnded)
	h.Get("/:id", c.Get)
	h.Post("/:id/approve", serverutils.AdminOnly, c.Approve)
	h.Post("/:id/pay", serverutils.AdminOnly, c.MarkPaid)
	h.Post("/:id/reschedule", serverutils.AdminOnly, c.Reschedule)
	h.Post("/:id/cancel", c.Cancel)
}

func (c *bookingController) Create(ctx *fiber.Ctx) error {
	actor, _ := serverutils.ActorFrom(ctx)

	var req dto.CreateBookingRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), actor, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.Response{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Booking created",
		Data:    res,
	})
}

func (c *bookingController) ListMine(ctx *fiber.Ctx) error {
	actor, _ := serverutils.ActorFrom(ctx)

	res, err := c.service.ListMine(ctx.UserContext(), actor)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching bookings", res))
}

func (c *bookingController) ListAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListAll(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching bookings", res))
}

func (c *bookingController) Get(ctx *fiber.Ctx) error {
	actor, _ := serverutils.ActorFrom(ctx)
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), actor, id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching booking", res))
}

func (c *bookingController) Approve(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Approve(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking approved", res))
}

func (c *bookingController) MarkPaid(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.MarkPaid(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking marked as paid", res))
}

func (c *bookingController) Reschedule(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	var req dto.RescheduleBookingRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Reschedule(ctx.UserContext(), id, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking rescheduled", res))
}

// Cancel reports the cancellation result at the top level of the body:
// refundProcessed, refundAmount in major units and an optional warning.
func (c *bookingController) Cancel(ctx *fiber.Ctx) error {
	actor, _ := serverutils.ActorFrom(ctx)
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	outcome, err := c.service.Cancel(ctx.UserContext(), id, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(dto.CancelBookingResponse{
		Success:         true,
		Code:            fiber.StatusOK,
		Message:         "Booking cancelled",
		RefundProcessed: outcome.RefundProcessed,
		RefundAmount:    mapper.ToMajorUnits(outcome.RefundAmount),
		Warning:         outcome.Warning(),
	})
}

func (c *bookingController) CompleteEnded(ctx *fiber.Ctx) error {
	count, err := c.service.CompleteEnded(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Ended bookings completed", dto.CompleteBookingsResponse{Updated: count}))
}
