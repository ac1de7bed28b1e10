package controller

import (
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITagController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
}

type tagController struct {
	service service.ITagService
}

func NewTagController(service service.ITagService) ITagController {
	return &tagController{service: service}
}

func (c *tagController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1")
	h.Get("/tag", c.GetAll)
}

func (c *tagController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Get List Tag Success", res))
}
