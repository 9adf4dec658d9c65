package auth

import (
	"fmt"
	"time"

	"mentorhub/globals"
	"mentorhub/middleware"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Tokens live for a week; there is no refresh or revocation flow.
const tokenTTL = 7 * 24 * time.Hour

// bcrypt cost 10 keeps hashing around tens of milliseconds.
const bcryptCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken issues a signed bearer token carrying the account id.
func GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// VerifyToken returns the account id a bare (non-"Bearer") token was issued
// for, or an error for anything expired, tampered or malformed.
func VerifyToken(tokenString string) (string, error) {
	claims, err := middleware.ValidateJWT("Bearer " + tokenString)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("token carries no user id")
	}
	return claims.UserID, nil
}
