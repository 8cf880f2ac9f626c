package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

func newTestTokenService(t *testing.T, accessTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, 24*time.Hour, "optiplan", "optiplan-clients", false, "", "", testSecret)
	require.NoError(t, err)
	return svc
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	t.Run("UserTokens", func(t *testing.T) {
		access, refresh, err := svc.GenerateTokens(42)
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)

		claims, err := svc.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)

		refreshClaims, err := svc.ValidateToken(refresh)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("AdminTokens", func(t *testing.T) {
		access, _, err := svc.GenerateAdminTokens(7)
		require.NoError(t, err)

		claims, err := svc.ValidateAdminToken(access)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.AdminID)

		// An admin token carries no user_id claim
		_, err = svc.ValidateToken(access)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	access, _, err := svc.GenerateTokens(1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	access, refresh, err := svc.GenerateTokens(42)
	require.NoError(t, err)

	t.Run("IssuesNewPair", func(t *testing.T) {
		newAccess, newRefresh, err := svc.RefreshToken(refresh)
		require.NoError(t, err)
		require.NotEmpty(t, newAccess)
		require.NotEmpty(t, newRefresh)

		claims, err := svc.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
	})

	t.Run("RejectsAccessToken", func(t *testing.T) {
		_, _, err := svc.RefreshToken(access)
		assert.Error(t, err)
	})
}

func TestNewTokenServiceValidation(t *testing.T) {
	_, err := NewTokenService(time.Minute, time.Hour, "optiplan", "optiplan-clients", false, "", "", "")
	assert.Error(t, err)

	_, err = NewTokenService(time.Minute, time.Hour, "optiplan", "optiplan-clients", true, "", "", "")
	assert.Error(t, err)
}
