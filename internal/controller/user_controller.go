// FILE: internal/controller/user_controller.go
package controller

import (
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetCredits(ctx *fiber.Ctx) error
	GetTransactions(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
	GetLedger(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/user")
	h.Get("/credits", jwtMiddleware, c.GetCredits)
	h.Get("/transactions", jwtMiddleware, c.GetTransactions)
	h.Get("/stats", jwtMiddleware, c.GetStats)
	h.Get("/ledger", jwtMiddleware, c.GetLedger)
}

func (c *userController) GetCredits(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetCredits(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Credit balance", res))
}

func (c *userController) GetTransactions(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetTransactions(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Transactions", res))
}

func (c *userController) GetStats(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetStats(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User stats", res))
}

func (c *userController) GetLedger(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetLedger(ctx.UserContext(), userId, ctx.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Credit history", res))
}
