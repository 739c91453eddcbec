package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/agent-admin/internal/auth"
	"github.com/spec-kit/agent-admin/internal/config"
	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/pinstore"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgAgentInactive      = "Agent account is not active"

	// devAdminPassword is used only when APP_ENV=development and no admin
	// password is configured.
	devAdminPassword = "admin"
)

// AuthService coordinates admin and agent login flows.
type AuthService struct {
	agents     *AgentService
	pins       pinstore.Store
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	admin      *auth.AdminCredentials
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Agents     *AgentService
	PINStore   pinstore.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service. The admin password hash is taken from
// configuration, or derived from the plaintext password when only that is set.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	adminHash := cfg.Auth.AdminPasswordHash
	if adminHash == "" {
		password := cfg.Auth.AdminPassword
		if password == "" && cfg.App.IsDevelopment() {
			logger.Warn("ADMIN_PASSWORD not set; using development default")
			password = devAdminPassword
		}
		if password != "" {
			hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
			if err != nil {
				return nil, err
			}
			adminHash = hash
		}
	}
	admin := auth.NewAdminCredentials(cfg.Auth.AdminEmail, adminHash)
	if !admin.Enabled() {
		logger.Warn("no admin credentials configured; admin login disabled")
	}

	return &AuthService{
		agents:     deps.Agents,
		pins:       deps.PINStore,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:     logger,
		admin:      admin,
	}, nil
}

// LoginAdmin authenticates the configured administrator.
func (s *AuthService) LoginAdmin(_ context.Context, email, password string) (string, time.Time, error) {
	if !s.admin.Verify(email, password) {
		s.logger.Info("admin login rejected")
		return "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	token, exp, err := s.tokenMgr.GenerateToken(s.admin.Email(), domain.SubjectTypeAdmin)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// LoginAgent authenticates an agent by PIN. Only approved agents may log in.
func (s *AuthService) LoginAgent(ctx context.Context, agentID int64, pin string) (string, time.Time, error) {
	agent, err := s.agents.GetAgentByID(ctx, agentID)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return "", time.Time{}, err
	}

	ok, err := s.pins.Verify(ctx, agentID, pin)
	if err != nil {
		s.logger.Error("verify pin failed", zap.Int64("agent_id", agentID), zap.Error(err))
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if !ok {
		s.logger.Info("agent login rejected", zap.Int64("agent_id", agentID))
		return "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if agent.Status != domain.AgentStatusApproved {
		return "", time.Time{}, apperrors.NewForbidden(msgAgentInactive)
	}

	token, exp, err := s.tokenMgr.GenerateToken(strconv.FormatInt(agentID, 10), domain.SubjectTypeAgent)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// SetAgentPIN stores a new PIN for an existing agent.
func (s *AuthService) SetAgentPIN(ctx context.Context, actor Actor, rawID, pin string) error {
	id, err := ParseAgentID(rawID)
	if err != nil {
		return err
	}
	if err := pinstore.ValidatePIN(pin); err != nil {
		return err
	}
	if _, err := s.agents.GetAgentByID(ctx, id); err != nil {
		return err
	}
	if err := s.pins.Set(ctx, id, pin); err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		s.logger.Error("set pin failed", zap.Int64("agent_id", id), zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAgentPINChanged,
			AgentID:   id,
			Actor:     events.Actor{Type: actor.Type, ID: actor.ID},
			Timestamp: time.Now().UTC(),
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
