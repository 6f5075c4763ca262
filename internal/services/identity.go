package services

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/potensio/gii-backend/internal/domain/identity"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

// SessionCookieMaxAge is the guest session cookie lifetime (30 days).
const SessionCookieMaxAge = 30 * 24 * 60 * 60

// SessionInstruction tells the HTTP layer to set a fresh session cookie.
// Identity resolution itself never writes cookies.
type SessionInstruction struct {
	Token  string
	MaxAge int
}

// IdentityService derives the acting identity from raw cookie/header values.
// A missing session cookie is not an error: a fresh guest identity is minted
// instead. An expired access token degrades to the guest session the same
// way; a token that fails verification outright is the one hard failure.
type IdentityService interface {
	Resolve(accessToken, sessionToken string) (identity.Identity, *SessionInstruction, error)
}

type identityService struct {
	log    *logger.Logger
	tokens TokenService
}

func NewIdentityService(log *logger.Logger, tokens TokenService) IdentityService {
	return &identityService{log: log.With("service", "IdentityService"), tokens: tokens}
}

func (is *identityService) Resolve(accessToken, sessionToken string) (identity.Identity, *SessionInstruction, error) {
	if accessToken != "" {
		userID, err := is.tokens.VerifyAccess(accessToken)
		switch {
		case err == nil:
			return identity.ForUser(userID), nil, nil
		case errors.Is(err, jwt.ErrTokenExpired):
			// A lapsed login keeps browsing as the guest its session
			// cookie names. Guarded routes still demand a live token.
			is.log.Debug("expired access token, resolving as guest")
		default:
			return identity.Identity{}, nil, apierr.Unauthorized("invalid_token", fmt.Errorf("verify access token: %w", err))
		}
	}

	if sessionToken != "" && !is.tokens.IsLegacySessionToken(sessionToken) {
		return identity.ForGuest(sessionToken), nil, nil
	}

	fresh, err := is.tokens.NewSessionToken()
	if err != nil {
		return identity.Identity{}, nil, apierr.Internal("session_token_failed", err)
	}
	if sessionToken != "" {
		is.log.Debug("rotating legacy session token")
	}
	return identity.ForGuest(fresh), &SessionInstruction{Token: fresh, MaxAge: SessionCookieMaxAge}, nil
}
