package auth

import (
	"strings"
	"testing"
	"time"

	"mentorhub/globals"
	"mentorhub/middleware"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-passw0rd" {
		t.Fatal("hash must not equal the password")
	}
	if !VerifyPassword("s3cret-passw0rd", hash) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != "user-42" {
		t.Fatalf("expected user-42, got %s", got)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("user-42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// flip one character in the signature
	mutated := []byte(token)
	last := len(mutated) - 1
	if mutated[last] == 'a' {
		mutated[last] = 'b'
	} else {
		mutated[last] = 'a'
	}

	if _, err := VerifyToken(string(mutated)); err == nil {
		t.Fatal("tampered token verified")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	now := time.Now()
	claims := &middleware.Claims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := VerifyToken(expired); err == nil {
		t.Fatal("expired token verified")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	for _, tok := range []string{"", "not-a-jwt", strings.Repeat("x", 300)} {
		if _, err := VerifyToken(tok); err == nil {
			t.Fatalf("garbage token %q verified", tok)
		}
	}
}
