package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMintAndVerifyAccess(t *testing.T) {
	ts := NewTokenService(testLogger(t), "test-secret", time.Hour)
	userID := uuid.New()

	token, err := ts.MintAccess(userID)
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}

	got, err := ts.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if got != userID {
		t.Fatalf("got user %s, want %s", got, userID)
	}
}

func TestVerifyAccessRejectsWrongSecret(t *testing.T) {
	minter := NewTokenService(testLogger(t), "secret-a", time.Hour)
	verifier := NewTokenService(testLogger(t), "secret-b", time.Hour)

	token, err := minter.MintAccess(uuid.New())
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := verifier.VerifyAccess(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	ts := NewTokenService(testLogger(t), "test-secret", -time.Minute)
	token, err := ts.MintAccess(uuid.New())
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := ts.VerifyAccess(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewSessionTokenFormat(t *testing.T) {
	ts := NewTokenService(testLogger(t), "test-secret", time.Hour)

	a, err := ts.NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	b, err := ts.NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	if !strings.HasPrefix(a, SessionTokenPrefix) {
		t.Fatalf("token %q missing prefix %q", a, SessionTokenPrefix)
	}
	if a == b {
		t.Fatal("two session tokens should never collide")
	}
}

func TestIsLegacySessionToken(t *testing.T) {
	ts := NewTokenService(testLogger(t), "test-secret", time.Hour)

	cases := []struct {
		token  string
		legacy bool
	}{
		{SessionTokenPrefix + "abc123", false},
		{uuid.NewString(), true},
		{"anything-else", true},
	}
	for _, tc := range cases {
		if got := ts.IsLegacySessionToken(tc.token); got != tc.legacy {
			t.Errorf("IsLegacySessionToken(%q) = %v, want %v", tc.token, got, tc.legacy)
		}
	}
}
