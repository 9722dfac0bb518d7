package security

import (
	"testing"
	"time"

	"github.com/username/kopilka/backend/src/config"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func init() {
	config.Cfg = &config.AppConfig{
		JWTSecret:          testSecret,
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := NewAuthService(testSecret)

	hash, err := svc.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if err := svc.CompareHashAndPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CompareHashAndPassword() with correct password: %v", err)
	}
	if err := svc.CompareHashAndPassword(hash, "wrong password"); err == nil {
		t.Error("CompareHashAndPassword() accepted a wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(testSecret)

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if userID != 42 {
		t.Errorf("ValidateToken() userID = %d, want 42", userID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(testSecret)
	verifier := NewAuthService("another-secret-key-also-long-enough-456")

	token, err := issuer.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted a token signed with a different secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(testSecret)
	if _, err := svc.ValidateToken("not.a.jwt"); err == nil {
		t.Error("ValidateToken() accepted garbage input")
	}
}

func TestGenerateRefreshTokenIsUnique(t *testing.T) {
	svc := NewAuthService(testSecret)
	a, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	b, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	if a == b {
		t.Error("two refresh tokens are identical")
	}
}
