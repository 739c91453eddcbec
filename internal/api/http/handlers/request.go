package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agent-admin/internal/auth"
	"github.com/spec-kit/agent-admin/internal/service"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

type validatable interface {
	Validate() error
}

// bindJSON parses the body into req. An empty body leaves req untouched.
func bindJSON(c *fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

func bindAndValidate(c *fiber.Ctx, req validatable) error {
	if err := bindJSON(c, req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewInvalidInput(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid payload"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{Type: principal.SubjectType, ID: principal.SubjectID}, nil
}
