package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/agent-admin/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("42", domain.SubjectTypeAgent)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.SubjectID)
	require.Equal(t, domain.SubjectTypeAgent, claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	t.Run("foreign signature", func(t *testing.T) {
		other := NewTokenManager("other-secret", 5)
		token, _, err := other.GenerateToken("admin", domain.SubjectTypeAdmin)
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		issuer := NewTokenManager("secret", 1)
		issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := issuer.GenerateToken("admin", domain.SubjectTypeAdmin)
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-jwt")
		require.Error(t, err)
	})
}

func TestAdminCredentials(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	creds := NewAdminCredentials(" Admin@Example.com", hash)
	require.True(t, creds.Enabled())
	require.Equal(t, "admin@example.com", creds.Email())
	require.True(t, creds.Verify("ADMIN@example.com ", "hunter2"))
	require.False(t, creds.Verify("admin@example.com", "hunter3"))
	require.False(t, creds.Verify("other@example.com", "hunter2"))

	disabled := NewAdminCredentials("admin@example.com", "")
	require.False(t, disabled.Enabled())
	require.False(t, disabled.Verify("admin@example.com", ""))
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("hunter2", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}
