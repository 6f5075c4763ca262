package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/potensio/gii-backend/internal/platform/logger"
)

// SessionTokenPrefix marks the current guest-session token format. Anything
// without it (notably the old plain-UUID cookies) is treated as legacy and
// rotated on the next request.
const SessionTokenPrefix = "sess_"

// TokenService mints and verifies the signed user-id access tokens and
// generates guest session tokens. JWT signing itself is the black box; this
// service is the single place that touches it.
type TokenService interface {
	MintAccess(userID uuid.UUID) (string, error)
	VerifyAccess(tokenString string) (uuid.UUID, error)
	NewSessionToken() (string, error)
	IsLegacySessionToken(token string) bool
	AccessTTL() time.Duration
}

type tokenService struct {
	log       *logger.Logger
	secretKey []byte
	accessTTL time.Duration
}

func NewTokenService(log *logger.Logger, secretKey string, accessTTL time.Duration) TokenService {
	return &tokenService{
		log:       log.With("service", "TokenService"),
		secretKey: []byte(secretKey),
		accessTTL: accessTTL,
	}
}

func (ts *tokenService) MintAccess(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (ts *tokenService) VerifyAccess(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.secretKey, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid access token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject in access token: %w", err)
	}
	return userID, nil
}

func (ts *tokenService) NewSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return SessionTokenPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

func (ts *tokenService) IsLegacySessionToken(token string) bool {
	if strings.HasPrefix(token, SessionTokenPrefix) {
		return false
	}
	// Old clients carried a bare UUID; anything else unrecognized is rotated
	// too rather than trusted.
	return true
}

func (ts *tokenService) AccessTTL() time.Duration { return ts.accessTTL }
