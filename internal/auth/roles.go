package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agent-admin/internal/domain"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// RequireAdmin ensures an admin is authenticated.
func RequireAdmin() fiber.Handler {
	return requireSubject(domain.SubjectTypeAdmin, "admin role required")
}

// RequireAgent ensures an agent is authenticated.
func RequireAgent() fiber.Handler {
	return requireSubject(domain.SubjectTypeAgent, "agent token required")
}

func requireSubject(subject domain.SubjectType, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != subject {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
