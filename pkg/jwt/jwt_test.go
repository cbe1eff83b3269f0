package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret-with-enough-length", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(7, "barista@cafearoma.com", "Ana", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.StaffID)
	assert.Equal(t, "barista@cafearoma.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "cafearoma", claims.Issuer)

	refresh, err := m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", refresh.SessionID)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.Empty(t, refresh.Email)

	// 两种Token不能互换
	_, err = m.ParseToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret-with-enough-length", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(7, "barista@cafearoma.com", "Ana", "sess-1")
	require.NoError(t, err)
	refresh, err := m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	renewed, err := m.RefreshAccessToken(refresh, "barista@cafearoma.com", "Ana")
	require.NoError(t, err)
	assert.Empty(t, renewed.RefreshToken)
	assert.Equal(t, int64(3600), renewed.ExpiresIn)

	claims, err := m.ParseToken(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.StaffID)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "Ana", claims.Name)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	_, err = m.RefreshAccessToken(access, "x", "y")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_ParseToken_Errors(t *testing.T) {
	m := NewManager("secret-a", time.Hour, time.Hour)

	t.Run("签名不匹配", func(t *testing.T) {
		other := NewManager("secret-b", time.Hour, time.Hour)
		pair, err := other.GenerateToken(1, "a@b.com", "x", "s")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("已过期", func(t *testing.T) {
		expired := NewManager("secret-a", -time.Minute, time.Hour)
		pair, err := expired.GenerateToken(1, "a@b.com", "x", "s")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestClaims_RemainingTTL(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)
	pair, err := m.GenerateToken(1, "a@b.com", "x", "s")
	require.NoError(t, err)
	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.RemainingTTL(time.Now())
	assert.Greater(t, ttl, 59*time.Minute)
	assert.Zero(t, claims.RemainingTTL(time.Now().Add(2*time.Hour)))
}
