package voice

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	voiceerrors "github.com/Muhannad-Khaled/Ailigent/internal/voice/errors"
)

// TokenService mints short-lived room access tokens for the WebRTC
// voice gateway. Tokens are signed locally; no upstream call is made.
type TokenService interface {
	RoomToken(room, identity, name string) (TokenResponse, error)
}

type videoGrant struct {
	Room     string `json:"room"`
	RoomJoin bool   `json:"roomJoin"`
}

type roomClaims struct {
	jwt.RegisteredClaims
	Name  string     `json:"name,omitempty"`
	Video videoGrant `json:"video"`
}

type tokenService struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewTokenService(cfg config.Voice, logger ...*zap.Logger) TokenService {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &tokenService{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		ttl:       ttl,
		logger:    l.Named("voice.service"),
		now:       time.Now,
	}
}

func (s *tokenService) RoomToken(room, identity, name string) (TokenResponse, error) {
	room = strings.TrimSpace(room)
	identity = strings.TrimSpace(identity)
	if room == "" || identity == "" {
		return TokenResponse{}, voiceerrors.ErrInvalidInput
	}
	if s.apiKey == "" || s.apiSecret == "" {
		s.logger.Warn("voice token requested without credentials configured")
		return TokenResponse{}, voiceerrors.ErrNotConfigured
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := roomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: strings.TrimSpace(name),
		Video: videoGrant{
			Room:     room,
			RoomJoin: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		s.logger.Error("failed to sign room token", zap.String("room", room), zap.Error(err))
		return TokenResponse{}, err
	}

	s.logger.Debug("room token minted",
		zap.String("room", room),
		zap.String("identity", identity),
		zap.Time("expires_at", expiresAt),
	)
	return TokenResponse{
		Token:     signed,
		Room:      room,
		Identity:  identity,
		ExpiresAt: expiresAt,
	}, nil
}
