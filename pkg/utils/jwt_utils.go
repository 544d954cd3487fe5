package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const devFallbackSecret = "sijuk-dev-only-secret-change-me"

var fallbackSecretWarning sync.Once

// jwtSecret resolves the signing key from the environment on every use.
// Resolving lazily matters: .env files are loaded in main, after package
// init has already run. The fallback is only suitable for local development
// and is logged once when in effect.
func jwtSecret() []byte {
	secret := Getenv("JWT_SECRET", devFallbackSecret)
	if secret == devFallbackSecret {
		fallbackSecretWarning.Do(func() {
			log.Warn().Msg("JWT_SECRET is not set; session tokens use the development fallback secret")
		})
	}
	return []byte(secret)
}

const (
	// SessionTokenTTL matches the session lifetime of the web client.
	SessionTokenTTL = 7 * 24 * time.Hour

	tokenIssuer = "sijuk-backend"
)

// Claims defines the session token claims structure.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a signed session token for a user.
func GenerateSessionToken(userID, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
