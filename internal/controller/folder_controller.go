package controller

import (
	"notabene-be/internal/dto"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFolderController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type folderController struct {
	service service.IFolderService
}

func NewFolderController(service service.IFolderService) IFolderController {
	return &folderController{service: service}
}

func (c *folderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1")
	h.Get("/folder", c.GetAll)
	h.Post("/folder", c.Create)
	h.Put("/folder/:id", c.Update)
	h.Delete("/folder/:id", c.Delete)
}

func (c *folderController) GetAll(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.Context(), actor)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Get List Folder Success", res))
}

func (c *folderController) Create(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success", res))
}

func (c *folderController) Update(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UpdateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	req.Id = id

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Updated Folder", res))
}

func (c *folderController) Delete(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	err = c.service.Delete(ctx.Context(), actor, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Delete Folder", nil))
}
