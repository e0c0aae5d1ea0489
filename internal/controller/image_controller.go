package controller

import (
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IImageController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Generate(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Explore(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SetVisibility(ctx *fiber.Ctx) error
}

type imageController struct {
	generation service.IGenerationService
	images     service.IImageService
	// generateLimiter runs after authentication so it can key on the user.
	generateLimiter fiber.Handler
}

func NewImageController(generation service.IGenerationService, images service.IImageService, generateLimiter fiber.Handler) IImageController {
	if generateLimiter == nil {
		generateLimiter = func(ctx *fiber.Ctx) error { return ctx.Next() }
	}
	return &imageController{
		generation:      generation,
		images:          images,
		generateLimiter: generateLimiter,
	}
}

func (c *imageController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/image")
	h.Get("/explore", c.Explore)

	h.Post("/generate", jwtMiddleware, c.generateLimiter, c.Generate)
	h.Get("/history", jwtMiddleware, c.History)
	h.Get("/:id", jwtMiddleware, c.Get)
	h.Delete("/:id", jwtMiddleware, c.Delete)
	h.Patch("/:id/visibility", jwtMiddleware, c.SetVisibility)
}

func (c *imageController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := c.generation.Generate(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Image generated", res))
}

func (c *imageController) History(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var q dto.ListImagesQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}

	res, err := c.images.History(ctx.UserContext(), userId, q.Page, q.Limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Image history", res))
}

func (c *imageController) Explore(ctx *fiber.Ctx) error {
	var q dto.ListImagesQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}

	res, err := c.images.Explore(ctx.UserContext(), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Public images", res))
}

func (c *imageController) Get(ctx *fiber.Ctx) error {
	userId, imageId, err := ownerAndImage(ctx)
	if err != nil {
		return err
	}

	res, err := c.images.Get(ctx.UserContext(), userId, imageId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Image", res))
}

func (c *imageController) Delete(ctx *fiber.Ctx) error {
	userId, imageId, err := ownerAndImage(ctx)
	if err != nil {
		return err
	}

	if err := c.images.Delete(ctx.UserContext(), userId, imageId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Image deleted", nil))
}

func (c *imageController) SetVisibility(ctx *fiber.Ctx) error {
	userId, imageId, err := ownerAndImage(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateVisibilityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.images.SetVisibility(ctx.UserContext(), userId, imageId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Visibility updated", res))
}

func ownerAndImage(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	imageId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		// malformed ids look the same as missing ones
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return userId, imageId, nil
}
