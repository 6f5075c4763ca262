package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	repos "github.com/potensio/gii-backend/internal/data/repos"
	authrepo "github.com/potensio/gii-backend/internal/data/repos/auth"
	userrepo "github.com/potensio/gii-backend/internal/data/repos/user"
	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthService is the thin account surface the checkout engine leans on:
// registration, login, and token issuance (also used to sign a guest in
// right after guest checkout).
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	// IssueTokens mints an access token and persists a refresh token,
	// inside the caller's transaction when one is supplied.
	IssueTokens(ctx context.Context, tx *gorm.DB, u *types.User) (*TokenPair, error)
}

type authService struct {
	log        *logger.Logger
	txRunner   repos.TxRunner
	users      userrepo.UserRepo
	userTokens authrepo.UserTokenRepo
	tokens     TokenService
	refreshTTL time.Duration
}

func NewAuthService(
	log *logger.Logger,
	txRunner repos.TxRunner,
	users userrepo.UserRepo,
	userTokens authrepo.UserTokenRepo,
	tokens TokenService,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		log:        log.With("service", "AuthService"),
		txRunner:   txRunner,
		users:      users,
		userTokens: userTokens,
		tokens:     tokens,
		refreshTTL: refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, apierr.Validation("invalid_email", fmt.Errorf("a valid email is required"))
	}
	if len(input.Password) < 8 {
		return nil, nil, apierr.Validation("invalid_password", fmt.Errorf("password must be at least 8 characters"))
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, nil, apierr.Validation("invalid_name", fmt.Errorf("full name is required"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	var created *types.User
	var pair *TokenPair
	err = as.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		exists, err := as.users.EmailExists(dbc.Ctx, dbc.Tx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.Validation("email_taken", fmt.Errorf("email already registered"))
		}
		created, err = as.users.Create(dbc.Ctx, dbc.Tx, &types.User{
			Email:    email,
			Password: string(hashed),
			FullName: strings.TrimSpace(input.FullName),
			Phone:    strings.TrimSpace(input.Phone),
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		pair, err = as.IssueTokens(dbc.Ctx, dbc.Tx, created)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return created, pair, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := as.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("unknown email or wrong password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("unknown email or wrong password"))
	}

	var pair *TokenPair
	err = as.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := as.userTokens.DeleteExpired(dbc.Ctx, dbc.Tx, time.Now()); err != nil {
			return fmt.Errorf("prune expired tokens: %w", err)
		}
		pair, err = as.IssueTokens(dbc.Ctx, dbc.Tx, u)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (as *authService) IssueTokens(ctx context.Context, tx *gorm.DB, u *types.User) (*TokenPair, error) {
	access, err := as.tokens.MintAccess(u.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	if _, err := as.userTokens.Create(ctx, tx, &types.UserToken{
		UserID:       u.ID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(as.tokens.AccessTTL().Seconds()),
	}, nil
}

func newRefreshToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// randomPassword backs accounts created implicitly by guest checkout; the
// guest signs in via the issued token and sets a real password later.
func randomPassword() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
