package util

import (
	"errors"

	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ReadRequestBody(ctx *fiber.Ctx, result interface{}) error {
	return ctx.BodyParser(&result)
}

func SendSuccessResponseNoData(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "OK",
	})
}

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusOK).JSON(data)
}

func SendCreatedResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusCreated).JSON(data)
}

func SendErrorResponse(ctx *fiber.Ctx, error error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": error,
	})
}

func SendErrorResponseNotFound(ctx *fiber.Ctx, error error) error {
	return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": error,
	})
}

func SendErrorResponseForbidden(ctx *fiber.Ctx, error error) error {
	return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": error,
	})
}

func SendErrorResponseUnauthorized(ctx *fiber.Ctx, error error) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": error,
	})
}

func SendErrorResponseUpstream(ctx *fiber.Ctx, error error) error {
	return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": error,
	})
}

func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, error error) error {
	log.Error("internal server error occured", zap.Error(error))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
			"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
		},
	})
}

// SendDomainError maps the error taxonomy onto HTTP statuses so callers can
// tell validation, missing records, denied actions and a down store apart
// without string matching. Anything unclassified is a 500 with a generic body.
func SendDomainError(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var forbiddenErr *model.ForbiddenError
	var upstreamErr *model.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		return SendErrorResponse(ctx, validationErr)
	case errors.As(err, &notFoundErr):
		return SendErrorResponseNotFound(ctx, notFoundErr)
	case errors.As(err, &forbiddenErr):
		return SendErrorResponseForbidden(ctx, forbiddenErr)
	case errors.As(err, &upstreamErr):
		log.Warn("record store unavailable", zap.Error(err))
		return SendErrorResponseUpstream(ctx, upstreamErr)
	default:
		return SendErrorResponseInternalServer(ctx, log, err)
	}
}
