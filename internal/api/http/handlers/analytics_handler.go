package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agent-admin/internal/service"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// AnalyticsHandler serves the dashboard chart data.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// StatusBreakdown handles GET /analytics/agents/status.
func (h *AnalyticsHandler) StatusBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.analytics.StatusBreakdown(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": breakdown})
}

// Onboarding handles GET /analytics/agents/onboarding?days=N.
func (h *AnalyticsHandler) Onboarding(c *fiber.Ctx) error {
	days := service.DefaultOnboardingDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewInvalidInput(fmt.Sprintf("days must be between 1 and %d", service.MaxOnboardingDays))
		}
		days = parsed
	}
	series, err := h.analytics.OnboardingSeries(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": series})
}
