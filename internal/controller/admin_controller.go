package controller

import (
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	DashboardStats(ctx *fiber.Ctx) error
	Analytics(ctx *fiber.Ctx) error
	Clients(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAnalyticsService
	auth    fiber.Handler
}

func NewAdminController(service service.IAnalyticsService, auth fiber.Handler) IAdminController {
	return &adminController{service: service, auth: auth}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	r.Get("/dashboard/stats", c.auth, serverutils.AdminOnly, c.DashboardStats)
	r.Get("/analytics", c.auth, serverutils.AdminOnly, c.Analytics)
	r.Get("/clients", c.auth, serverutils.AdminOnly, c.Clients)
}

func (c *adminController) DashboardStats(ctx *fiber.Ctx) error {
	res, err := c.service.DashboardStats(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching dashboard stats", res))
}

func (c *adminController) Analytics(ctx *fiber.Ctx) error {
	res, err := c.service.Analytics(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching analytics", res))
}

func (c *adminController) Clients(ctx *fiber.Ctx) error {
	res, err := c.service.Clients(ctx.UserContext())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching clients", res))
}
