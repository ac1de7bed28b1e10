package serverutils

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var statusByError = []struct {
	err    error
	status int
}{
	{ErrNotFound, fiber.StatusNotFound},
	{ErrForbidden, fiber.StatusForbidden},
	{ErrUnauthorized, fiber.StatusUnauthorized},
	{ErrConflict, fiber.StatusConflict},
	{ErrInvalidTag, fiber.StatusBadRequest},
	{ErrSelfShare, fiber.StatusBadRequest},
	{ErrUnknownUser, fiber.StatusBadRequest},
	{ErrBadRequest, fiber.StatusBadRequest},
}

func ErrorHandlerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Path()),
					zap.ByteString("stack", debug.Stack()))
				err = c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(
					fiber.StatusInternalServerError, ErrInternal.Error(),
				))
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		for _, known := range statusByError {
			if errors.Is(err, known.err) {
				return c.Status(known.status).JSON(ErrorResponse(known.status, err.Error()))
			}
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse(ve.ToErrorDetails()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Bool("storage", errors.Is(err, ErrStorage)))

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(
			fiber.StatusInternalServerError, ErrInternal.Error(),
		))
	}
}
