package controller

import (
	"bookease-be/internal/dto"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IServiceController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	ListAll(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type serviceController struct {
	service service.ICatalogService
	auth    fiber.Handler
}

func NewServiceController(service service.ICatalogService, auth fiber.Handler) IServiceController {
	return &serviceController{service: service, auth: auth}
}

func (c *serviceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/services")
	h.Get("/", c.List)
	h.Get("/all", c.auth, serverutils.AdminOnly, c.ListAll)
	h.Get("/:id", c.Get)
	h.Post("/", c.auth, serverutils.AdminOnly, c.Create)
	h.Put("/:id", c.auth, serverutils.AdminOnly, c.Update)
	h.Delete("/:id", c.auth, serverutils.AdminOnly, c.Delete)
}

func (c *serviceController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListActive(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching services", res))
}

func (c *serviceController) ListAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListAll(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching services", res))
}

func (c *serviceController) Get(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching service", res))
}

func (c *serviceController) Create(ctx *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.Response{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Service created",
		Data:    res,
	})
}

func (c *serviceController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	var req dto.ServiceRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Service updated", res))
}

func (c *serviceController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Service deleted", nil))
}
