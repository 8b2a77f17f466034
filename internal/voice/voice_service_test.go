package voice

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	voiceerrors "github.com/Muhannad-Khaled/Ailigent/internal/voice/errors"
)

func newTestService(t *testing.T, cfg config.Voice) *tokenService {
	t.Helper()
	svc, ok := NewTokenService(cfg, zap.NewNop()).(*tokenService)
	require.True(t, ok)
	return svc
}

func parseRoomToken(t *testing.T, token, secret string) roomClaims {
	t.Helper()
	var claims roomClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestTokenService_RoomToken(t *testing.T) {
	cfg := config.Voice{
		APIKey:    "AKTEST123",
		APISecret: "super-secret",
		TokenTTL:  time.Hour,
	}

	t.Run("success mints a signed room grant", func(t *testing.T) {
		svc := newTestService(t, cfg)
		fixed := time.Now().Truncate(time.Second)
		svc.now = func() time.Time { return fixed }

		resp, err := svc.RoomToken("standup", "amira.hassan", "Amira Hassan")
		require.NoError(t, err)
		assert.Equal(t, "standup", resp.Room)
		assert.Equal(t, "amira.hassan", resp.Identity)
		assert.True(t, resp.ExpiresAt.Equal(fixed.Add(time.Hour)))

		claims := parseRoomToken(t, resp.Token, "super-secret")
		assert.Equal(t, "AKTEST123", claims.Issuer)
		assert.Equal(t, "amira.hassan", claims.Subject)
		assert.Equal(t, "Amira Hassan", claims.Name)
		assert.Equal(t, "standup", claims.Video.Room)
		assert.True(t, claims.Video.RoomJoin)
		require.NotNil(t, claims.NotBefore)
		assert.True(t, claims.NotBefore.Time.Equal(fixed))
		require.NotNil(t, claims.ExpiresAt)
		assert.True(t, claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)))
	})

	t.Run("success trims room and identity", func(t *testing.T) {
		svc := newTestService(t, cfg)

		resp, err := svc.RoomToken("  standup  ", " amira.hassan ", "")
		require.NoError(t, err)
		assert.Equal(t, "standup", resp.Room)
		assert.Equal(t, "amira.hassan", resp.Identity)

		claims := parseRoomToken(t, resp.Token, "super-secret")
		assert.Empty(t, claims.Name)
		assert.Equal(t, "standup", claims.Video.Room)
	})

	t.Run("success applies default ttl when unset", func(t *testing.T) {
		svc := newTestService(t, config.Voice{APIKey: "AKTEST123", APISecret: "super-secret"})
		fixed := time.Now().Truncate(time.Second)
		svc.now = func() time.Time { return fixed }

		resp, err := svc.RoomToken("standup", "amira.hassan", "")
		require.NoError(t, err)
		assert.True(t, resp.ExpiresAt.Equal(fixed.Add(6*time.Hour)))
	})

	t.Run("negative empty room", func(t *testing.T) {
		svc := newTestService(t, cfg)

		_, err := svc.RoomToken("   ", "amira.hassan", "")
		assert.ErrorIs(t, err, voiceerrors.ErrInvalidInput)
	})

	t.Run("negative empty identity", func(t *testing.T) {
		svc := newTestService(t, cfg)

		_, err := svc.RoomToken("standup", "", "")
		assert.ErrorIs(t, err, voiceerrors.ErrInvalidInput)
	})

	t.Run("negative missing credentials", func(t *testing.T) {
		svc := newTestService(t, config.Voice{TokenTTL: time.Hour})

		_, err := svc.RoomToken("standup", "amira.hassan", "")
		assert.ErrorIs(t, err, voiceerrors.ErrNotConfigured)
	})

	t.Run("negative wrong secret fails verification", func(t *testing.T) {
		svc := newTestService(t, cfg)

		resp, err := svc.RoomToken("standup", "amira.hassan", "")
		require.NoError(t, err)

		var claims roomClaims
		_, err = jwt.ParseWithClaims(resp.Token, &claims, func(token *jwt.Token) (interface{}, error) {
			return []byte("other-secret"), nil
		})
		assert.Error(t, err)
	})
}
