package controller

import (
	"net/url"
	"notabene-be/internal/dto"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/service"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Copy(ctx *fiber.Ctx) error
	ListVersions(ctx *fiber.Ctx) error
	RestoreVersion(ctx *fiber.Ctx) error
	ListShares(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	ReplaceShares(ctx *fiber.Ctx) error
	Unshare(ctx *fiber.Ctx) error
}

type noteController struct {
	service service.INoteService
}

func NewNoteController(service service.INoteService) INoteController {
	return &noteController{service: service}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1")
	h.Get("/note", c.GetAll)
	h.Post("/note", c.Create)
	h.Get("/note/search", c.Search)
	h.Get("/note/:id", c.Show)
	h.Put("/note/:id", c.Update)
	h.Delete("/note/:id", c.Delete)
	h.Post("/note/:id/copy", c.Copy)
	h.Get("/note/:id/version", c.ListVersions)
	h.Post("/note/:id/version/:versionId/restore", c.RestoreVersion)
	h.Get("/note/:id/share", c.ListShares)
	h.Post("/note/:id/share", c.Share)
	h.Put("/note/:id/share", c.ReplaceShares)
	h.Delete("/note/:id/share/:email", c.Unshare)
}

func (c *noteController) GetAll(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.Context(), actor)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Get List Note Success", res))
}

func (c *noteController) Search(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	req := dto.SearchNoteRequest{
		Term: ctx.Query("q"),
		Tag:  ctx.Query("tag"),
	}

	bounds := []struct {
		param string
		upper bool
		dst   **time.Time
	}{
		{"created_from", false, &req.CreatedFrom},
		{"created_to", true, &req.CreatedTo},
		{"modified_from", false, &req.ModifiedFrom},
		{"modified_to", true, &req.ModifiedTo},
	}
	for _, b := range bounds {
		t, err := serverutils.ParseTimeBound(ctx.Query(b.param), b.upper)
		if err != nil {
			return err
		}
		*b.dst = t
	}

	res, err := c.service.Search(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search Note Success", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
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

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success Create Note", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Show(ctx.Context(), actor, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UpdateNoteRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success Updated Note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
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

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Delete Note", nil))
}

func (c *noteController) Copy(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Copy(ctx.Context(), actor, id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success Copy Note", res))
}

func (c *noteController) ListVersions(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.ListVersions(ctx.Context(), actor, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Get List Version Success", res))
}

func (c *noteController) RestoreVersion(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	id, _ := uuid.Parse(ctx.Params("id"))
	versionId, _ := uuid.Parse(ctx.Params("versionId"))

	res, err := c.service.RestoreVersion(ctx.Context(), actor, &dto.RestoreVersionRequest{
		NoteId:    id,
		VersionId: versionId,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Restore Note", res))
}

func (c *noteController) ListShares(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.ListShares(ctx.Context(), actor, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Get List Share Success", res))
}

func (c *noteController) Share(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.ShareNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NoteId = id

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.service.Share(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Share Note", res))
}

func (c *noteController) ReplaceShares(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.ReplaceSharesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NoteId = id

	err = serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.service.ReplaceShares(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Replace Share", res))
}

func (c *noteController) Unshare(ctx *fiber.Ctx) error {
	actor, err := serverutils.Actor(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	email, err := url.PathUnescape(ctx.Params("email"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	err = c.service.Unshare(ctx.Context(), actor, id, email)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Revoke Share", nil))
}
