package handlers

import (
	"errors"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/conversation"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// parseBody decodes and validates a JSON body. An empty body is allowed when
// the request type has no required fields.
func parseBody(c *fiber.Ctx, req any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// errorResponse maps service errors to HTTP status codes.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.Is(err, services.ErrValidation), errors.Is(err, conversation.ErrAgentRequired):
		status = fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, conversation.ErrIllegalTransition), errors.Is(err, repositories.ErrVersionConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrDispatchFailed):
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
