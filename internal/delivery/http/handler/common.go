package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/validation"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase/ucerr"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const messageInvalidBody = "Invalid request body"

// bindBody decodes the request body into out and checks its validate tags.
func bindBody(c fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidBody, nil, err)
	}
	if v == nil {
		return nil
	}
	if err := v.Validate(out); err != nil {
		if ve, ok := validation.As(err); ok {
			return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidBody, ve.Violations, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return nil
}

func currentUser(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}

// invalidInput renders a usecase validation failure. A FieldError supplies
// the message and a single violation.
func invalidInput(err error) *middleware.AppError {
	if fe, ok := ucerr.AsFieldError(err); ok {
		return middleware.NewAppError(fiber.StatusBadRequest, fe.Message,
			[]validation.Violation{{Field: fe.Field, Rule: fe.Reason}}, err)
	}
	return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
}

func internalError(err error) *middleware.AppError {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

func isInvalidInput(err error) bool {
	return errors.Is(err, ucerr.ErrInvalidInput)
}
