package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agent-admin/internal/api/dto"
	"github.com/spec-kit/agent-admin/internal/service"
)

// Response messages for lifecycle commands.
const (
	MsgAgentRejected    = "Agent application rejected"
	MsgAgentSuspended   = "Agent suspended"
	MsgAgentReactivated = "Agent reactivated successfully"
	MsgPINUpdated       = "PIN updated"
)

// AgentsHandler exposes the admin agent endpoints.
type AgentsHandler struct {
	agents  *service.AgentService
	auth    *service.AuthService
	history *service.HistoryService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agents *service.AgentService, authService *service.AuthService, history *service.HistoryService) *AgentsHandler {
	return &AgentsHandler{agents: agents, auth: authService, history: history}
}

// List handles GET /agents.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	agents, err := h.agents.ListAgents(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentListResponse(agents)})
}

// Get handles GET /agents/:id.
func (h *AgentsHandler) Get(c *fiber.Ctx) error {
	agent, err := h.agents.GetAgent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// Reject handles POST /agents/:id/reject.
func (h *AgentsHandler) Reject(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.RejectAgentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if _, err := h.agents.RejectAgent(c.UserContext(), actor, c.Params("id"), req.RejectionReason); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: MsgAgentRejected})
}

// Suspend handles POST /agents/:id/suspend.
func (h *AgentsHandler) Suspend(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SuspendAgentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if _, err := h.agents.SuspendAgent(c.UserContext(), actor, c.Params("id"), req.SuspensionReason); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: MsgAgentSuspended})
}

// Reactivate handles POST /agents/:id/reactivate.
func (h *AgentsHandler) Reactivate(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if _, err := h.agents.ReactivateAgent(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: MsgAgentReactivated})
}

// SetPIN handles PUT /agents/:id/pin.
func (h *AgentsHandler) SetPIN(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SetPINRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.SetAgentPIN(c.UserContext(), actor, c.Params("id"), req.PIN); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: MsgPINUpdated})
}

// History handles GET /agents/:id/history.
func (h *AgentsHandler) History(c *fiber.Ctx) error {
	entries, err := h.history.ListAgentHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentHistoryResponse(entries)})
}
