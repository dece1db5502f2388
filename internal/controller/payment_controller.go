package controller

import (
	"bookease-be/internal/pkg/payment"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	StripeWebhook(ctx *fiber.Ctx) error
	MidtransWebhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	auth    fiber.Handler
}

func NewPaymentController(service service.IPaymentService, auth fiber.Handler) IPaymentController {
	return &paymentController{service: service, auth: auth}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	r.Post("/bookings/:id/checkout", c.auth, c.Checkout)

	h := r.Group("/payment")
	h.Post("/stripe/webhook", c.StripeWebhook)
	h.Post("/midtrans/notification", c.MidtransWebhook)
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	actor, _ := serverutils.ActorFrom(ctx)
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CreateCheckout(ctx.UserContext(), actor, id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout session created", res))
}

func (c *paymentController) StripeWebhook(ctx *fiber.Ctx) error {
	return c.handleWebhook(ctx, payment.ProviderStripe, ctx.Get("Stripe-Signature"))
}

func (c *paymentController) MidtransWebhook(ctx *fiber.Ctx) error {
	return c.handleWebhook(ctx, payment.ProviderMidtrans, "")
}

func (c *paymentController) handleWebhook(ctx *fiber.Ctx, provider, signature string) error {
	// Body is only valid for the lifetime of the handler.
	payload := append([]byte(nil), ctx.Body()...)

	if err := c.service.HandleWebhook(ctx.UserContext(), provider, payload, signature); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"received": true})
}
