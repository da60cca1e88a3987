package controller

import (
	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/pkg/serverutils"
	"rag-debugger-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICaptureController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Retrieval(ctx *fiber.Ctx) error
	Prompt(ctx *fiber.Ctx) error
	Generation(ctx *fiber.Ctx) error
	Finish(ctx *fiber.Ctx) error
}

type captureController struct {
	service service.ICaptureService
}

func NewCaptureController(service service.ICaptureService) ICaptureController {
	return &captureController{service: service}
}

func (c *captureController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/capture")
	h.Post("/start", c.Start)
	h.Post("/:id/retrieval", c.Retrieval)
	h.Post("/:id/prompt", c.Prompt)
	h.Post("/:id/generation", c.Generation)
	h.Post("/:id/finish", c.Finish)
}

func (c *captureController) Start(ctx *fiber.Ctx) error {
	var req dto.StartCaptureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start capture", res))
}

func (c *captureController) Retrieval(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CaptureRetrievalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CaptureRetrieval(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success capture retrieval", res))
}

func (c *captureController) Prompt(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CapturePromptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CapturePrompt(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success capture prompt", res))
}

func (c *captureController) Generation(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CaptureGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CaptureGeneration(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success capture generation", res))
}

func (c *captureController) Finish(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Finish(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success finish capture", res))
}
