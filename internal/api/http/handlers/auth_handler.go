package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agent-admin/internal/api/dto"
	"github.com/spec-kit/agent-admin/internal/service"
)

// AuthHandler exposes login endpoints and the agent self view.
type AuthHandler struct {
	auth   *service.AuthService
	agents *service.AgentService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, agents *service.AgentService) *AuthHandler {
	return &AuthHandler{auth: authService, agents: agents}
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, exp, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// AgentLogin handles POST /auth/agents/login.
func (h *AuthHandler) AgentLogin(c *fiber.Ctx) error {
	var req dto.AgentLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, exp, err := h.auth.LoginAgent(c.UserContext(), req.AgentID, req.PIN)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// Me handles GET /agent/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	agent, err := h.agents.GetAgent(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}
