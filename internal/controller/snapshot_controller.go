package controller

import (
	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/pkg/serverutils"
	"rag-debugger-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISnapshotController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Compare(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type snapshotController struct {
	service service.ISnapshotService
	compare service.ICompareService
}

func NewSnapshotController(service service.ISnapshotService, compare service.ICompareService) ISnapshotController {
	return &snapshotController{
		service: service,
		compare: compare,
	}
}

func (c *snapshotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/snapshots")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get("/compare", c.Compare)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
}

func (c *snapshotController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSnapshotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create snapshot", res))
}

func (c *snapshotController) GetAll(ctx *fiber.Ctx) error {
	var req dto.ListSnapshotsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.Validation("invalid query parameters")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), req.Limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all snapshots", res))
}

func (c *snapshotController) Compare(ctx *fiber.Ctx) error {
	id1, err := uuid.Parse(ctx.Query("snapshot1"))
	if err != nil {
		return apperror.Validation("invalid snapshot1 id %q", ctx.Query("snapshot1"))
	}
	id2, err := uuid.Parse(ctx.Query("snapshot2"))
	if err != nil {
		return apperror.Validation("invalid snapshot2 id %q", ctx.Query("snapshot2"))
	}

	res, err := c.compare.Compare(ctx.Context(), id1, id2)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compare snapshots", res))
}

func (c *snapshotController) Show(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show snapshot", res))
}

func (c *snapshotController) Delete(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete snapshot", nil))
}
