// FILE: internal/controller/payment_controller.go
package controller

import (
	"errors"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetPlans(ctx *fiber.Ctx) error
	CreateOrder(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	logger  logger.ILogger
}

func NewPaymentController(service service.IPaymentService, logger logger.ILogger) IPaymentController {
	return &paymentController{service: service, logger: logger}
}

func (c *paymentController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/payment")
	h.Get("/plans", c.GetPlans)
	h.Post("/notification", c.Webhook)

	h.Post("/order", jwtMiddleware, c.CreateOrder)
	h.Post("/verify", jwtMiddleware, c.Verify)
}

func (c *paymentController) GetPlans(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", c.service.GetPlans(ctx.UserContext())))
}

func (c *paymentController) CreateOrder(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateOrder(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Order created", res))
}

func (c *paymentController) Verify(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.VerifyPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.VerifyAndSettle(ctx.UserContext(), req.OrderId, &userId)
	if err != nil {
		return err
	}

	msg := "Credits added"
	if res.AlreadySettled {
		msg = "Payment already processed"
	}
	return ctx.JSON(serverutils.SuccessResponse(msg, res))
}

// Webhook answers 200 for anything it has handled or can never handle, and
// 5xx only when a retry from the gateway could succeed.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("PaymentController", "Webhook body parsing failed", map[string]interface{}{"error": err.Error()})
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	err := c.service.HandleNotification(ctx.UserContext(), &req)
	switch {
	case err == nil:
		return ctx.SendStatus(fiber.StatusOK)
	case errors.Is(err, entity.ErrInvalidSignature):
		return ctx.SendStatus(fiber.StatusUnauthorized)
	case errors.Is(err, entity.ErrNotFound):
		c.logger.Warn("PaymentController", "Webhook for unknown order", map[string]interface{}{"order_id": req.OrderId})
		return ctx.SendStatus(fiber.StatusOK)
	default:
		c.logger.Error("PaymentController", "Webhook handling failed", map[string]interface{}{
			"order_id": req.OrderId,
			"error":    err.Error(),
		})
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}
}
