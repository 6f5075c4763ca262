package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/potensio/gii-backend/internal/platform/apierr"
)

func newAuthFixture(t *testing.T) (AuthService, TokenService, *fakeUserRepo, *fakeUserTokenRepo) {
	t.Helper()
	log := testLogger(t)
	users := &fakeUserRepo{}
	userTokens := &fakeUserTokenRepo{}
	tokens := NewTokenService(log, "test-secret", time.Hour)
	return NewAuthService(log, passTxRunner{}, users, userTokens, tokens, 24*time.Hour), tokens, users, userTokens
}

func TestRegisterAndLogin(t *testing.T) {
	auth, tokens, _, userTokens := newAuthFixture(t)

	user, pair, err := auth.Register(context.Background(), RegisterInput{
		Email:    "Budi@Example.com",
		Password: "rahasia-sekali",
		FullName: "Budi Santoso",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "budi@example.com" {
		t.Fatalf("email must normalize to lowercase, got %q", user.Email)
	}
	if user.Password == "rahasia-sekali" {
		t.Fatal("password must never be stored in the clear")
	}
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("registration must issue tokens, got %+v", pair)
	}
	if got, _ := tokens.VerifyAccess(pair.AccessToken); got != user.ID {
		t.Fatal("access token must resolve to the new user")
	}
	if len(userTokens.tokens) != 1 {
		t.Fatalf("refresh token not persisted, have %d", len(userTokens.tokens))
	}

	// Case-insensitive login with the original password.
	loggedIn, pair2, err := auth.Login(context.Background(), "BUDI@example.com", "rahasia-sekali")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID || pair2.AccessToken == "" {
		t.Fatalf("unexpected login result %+v / %+v", loggedIn, pair2)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	cases := []struct {
		name  string
		input RegisterInput
		code  string
	}{
		{"bad email", RegisterInput{Email: "nope", Password: "longenough", FullName: "X"}, "invalid_email"},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short", FullName: "X"}, "invalid_password"},
		{"missing name", RegisterInput{Email: "a@b.com", Password: "longenough"}, "invalid_name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Register(context.Background(), tc.input)
			var ae *apierr.Error
			if !errors.As(err, &ae) || ae.Code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)
	input := RegisterInput{Email: "budi@example.com", Password: "rahasia-sekali", FullName: "Budi"}

	if _, _, err := auth.Register(context.Background(), input); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := auth.Register(context.Background(), input)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "email_taken" {
		t.Fatalf("expected email_taken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)
	if _, _, err := auth.Register(context.Background(), RegisterInput{
		Email: "budi@example.com", Password: "rahasia-sekali", FullName: "Budi",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, attempt := range []struct{ email, password string }{
		{"budi@example.com", "wrong-password"},
		{"nobody@example.com", "rahasia-sekali"},
	} {
		_, _, err := auth.Login(context.Background(), attempt.email, attempt.password)
		var ae *apierr.Error
		if !errors.As(err, &ae) || ae.Code != "invalid_credentials" {
			t.Fatalf("expected invalid_credentials for %s, got %v", attempt.email, err)
		}
	}
}
