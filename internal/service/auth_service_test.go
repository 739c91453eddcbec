package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/agent-admin/internal/config"
	"github.com/spec-kit/agent-admin/internal/domain"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/pinstore"
	"github.com/spec-kit/agent-admin/internal/testutil"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

type authFixture struct {
	repo   *testutil.InMemoryAgentRepository
	pins   *pinstore.MemoryStore
	events []events.Event
	svc    *AuthService
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Env: "test"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            bcrypt.MinCost,
			AdminEmail:            "Admin@Example.com",
			AdminPassword:         "s3cret",
		},
	}
}

func newAuthFixture(t *testing.T, cfg config.Config) *authFixture {
	t.Helper()
	f := &authFixture{
		repo: testutil.NewInMemoryAgentRepository(),
		pins: pinstore.NewMemoryStore(bcrypt.MinCost),
	}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventAgentPINChanged, func(_ context.Context, e events.Event) error {
		f.events = append(f.events, e)
		return nil
	})
	agents := NewAgentService(AgentDependencies{AgentRepo: f.repo, Clock: testutil.FixedClock(nowTime)})
	svc, err := NewAuthService(cfg, AuthDependencies{Agents: agents, PINStore: f.pins, Dispatcher: dispatcher})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestLoginAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, testConfig())

	token, _, err := f.svc.LoginAdmin(ctx, " admin@example.com ", "s3cret")
	require.NoError(t, err)
	claims, err := f.svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, domain.SubjectTypeAdmin, claims.Subject)

	_, _, err = f.svc.LoginAdmin(ctx, "admin@example.com", "wrong")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, _, err = f.svc.LoginAdmin(ctx, "other@example.com", "s3cret")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLoginAdminDisabledWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.AdminPassword = ""
	f := newAuthFixture(t, cfg)

	_, _, err := f.svc.LoginAdmin(context.Background(), "admin@example.com", "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLoginAdminDevelopmentDefault(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "development"
	cfg.Auth.AdminPassword = ""
	f := newAuthFixture(t, cfg)

	_, _, err := f.svc.LoginAdmin(context.Background(), "admin@example.com", devAdminPassword)
	require.NoError(t, err)
}

func TestLoginAgent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, testConfig())

	require.NoError(t, f.repo.Create(ctx, testutil.NewAgent(1, domain.AgentStatusApproved, baseTime)))
	require.NoError(t, f.repo.Create(ctx, testutil.NewAgent(2, domain.AgentStatusSuspended, baseTime)))
	require.NoError(t, f.pins.Set(ctx, 1, "1234"))
	require.NoError(t, f.pins.Set(ctx, 2, "5678"))

	t.Run("approved agent with matching pin", func(t *testing.T) {
		token, _, err := f.svc.LoginAgent(ctx, 1, "1234")
		require.NoError(t, err)
		claims, err := f.svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		require.Equal(t, domain.SubjectTypeAgent, claims.Subject)
		require.Equal(t, "1", claims.SubjectID)
	})

	t.Run("wrong pin", func(t *testing.T) {
		_, _, err := f.svc.LoginAgent(ctx, 1, "0000")
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("unknown agent looks like wrong credentials", func(t *testing.T) {
		_, _, err := f.svc.LoginAgent(ctx, 99, "1234")
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("suspended agent is forbidden", func(t *testing.T) {
		_, _, err := f.svc.LoginAgent(ctx, 2, "5678")
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
}

func TestSetAgentPIN(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, testConfig())
	require.NoError(t, f.repo.Create(ctx, testutil.NewAgent(5, domain.AgentStatusApproved, baseTime)))

	require.NoError(t, f.svc.SetAgentPIN(ctx, admin, "5", "4321"))
	ok, err := f.pins.Verify(ctx, 5, "4321")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, f.events, 1)
	require.Equal(t, int64(5), f.events[0].AgentID)

	err = f.svc.SetAgentPIN(ctx, admin, "5", "12")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	err = f.svc.SetAgentPIN(ctx, admin, "6", "4321")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	err = f.svc.SetAgentPIN(ctx, admin, "abc", "4321")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Len(t, f.events, 1)
}
