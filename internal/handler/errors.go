package handler

import (
	"errors"
	"strings"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// ErrorHandler renders every error as {"error": {code, message, details}}.
// Server faults are logged in full and reported with a generic message.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.WithComponent("http")

	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": &apperror.AppError{
				Code:    statusCode(fe.Code),
				Message: fe.Message,
			}})
		}

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			appErr = apperror.NewServerFault(err)
		}
		if appErr.HTTPStatus >= fiber.StatusInternalServerError {
			access.Log(c.UserContext(), log).Errorw("request failed",
				"method", c.Method(), "path", c.Path(), "error", err)
			appErr = &apperror.AppError{
				Code:       apperror.CodeServerFault,
				Message:    "Internal server error",
				HTTPStatus: appErr.HTTPStatus,
			}
		}

		return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"error": appErr})
	}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return apperror.CodeValidation
	case fiber.StatusUnauthorized:
		return apperror.CodeUnauthenticated
	case fiber.StatusForbidden:
		return apperror.CodeForbidden
	case fiber.StatusNotFound:
		return apperror.CodeNotFound
	case fiber.StatusConflict:
		return apperror.CodeConflict
	}
	if status >= fiber.StatusInternalServerError {
		return apperror.CodeServerFault
	}
	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.NewValidation("Invalid JSON").WithCause(err)
	}
	return nil
}

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NewValidation("Invalid " + name).WithDetail(name, c.Params(name))
	}
	return id, nil
}
