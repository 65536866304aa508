package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-demo/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	sessionID := uuid.New()

	token, err := MintSessionToken(cfg, now, SessionTokenPayload{
		SessionID:     sessionID,
		Authenticated: true,
		DisplayName:   "John Doe",
	})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Fatalf("expected session_id %s, got %s", sessionID, claims.SessionID)
	}
	if !claims.Authenticated || claims.DisplayName != "John Doe" {
		t.Fatalf("unexpected auth claims %+v", claims)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
	if !claims.ExpiresAt.Time.After(claims.IssuedAt.Time) {
		t.Fatalf("expiry must follow issued at")
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: uuid.New()})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	other := cfg
	other.Secret = "other"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), SessionTokenPayload{SessionID: uuid.New()})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestMintSessionTokenRequiresSession(t *testing.T) {
	if _, err := MintSessionToken(testJWTConfig(), time.Now(), SessionTokenPayload{}); err == nil {
		t.Fatalf("expected error for missing session id")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"standard":     {header: "Bearer abc", token: "abc", ok: true},
		"lowercase":    {header: "bearer abc", token: "abc", ok: true},
		"missing":      {header: "", ok: false},
		"wrong scheme": {header: "Basic abc", ok: false},
		"empty token":  {header: "Bearer   ", ok: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			if ok != tc.ok || token != tc.token {
				t.Fatalf("BearerToken(%q) = %q, %v", tc.header, token, ok)
			}
		})
	}
}
