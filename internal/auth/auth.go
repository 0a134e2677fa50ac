// Package auth covers credential hashing and bearer token issuance. The
// core trusts the resolved identity verbatim for scoping; this package only
// establishes who the caller is.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"mealcore/pkg/domain"
)

// Environment variables consulted by NewTokenIssuerFromEnv.
const (
	EnvJWTSecret = "MEALCORE_JWT_SECRET"
	EnvJWTTTL    = "MEALCORE_JWT_TTL"
)

// DefaultTokenTTL matches a seven day session.
const DefaultTokenTTL = 168 * time.Hour

const bcryptCost = 10

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.ValidationError{Message: "password is required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Identity is the authenticated caller the repositories and aggregations
// scope by.
type Identity struct {
	UserID   string
	Role     domain.Role
	SchoolID string
	District string
}

// TokenIssuer signs and verifies HS256 bearer tokens carrying the user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an issuer with an explicit secret and ttl.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// NewTokenIssuerFromEnv builds an issuer from process environment.
func NewTokenIssuerFromEnv() (*TokenIssuer, error) {
	secret := os.Getenv(EnvJWTSecret)
	if secret == "" {
		return nil, fmt.Errorf("%s required", EnvJWTSecret)
	}
	ttl := DefaultTokenTTL
	if raw := os.Getenv(EnvJWTTTL); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvJWTTTL, err)
		}
		ttl = parsed
	}
	return NewTokenIssuer(secret, ttl)
}

// Issue signs a token for the given user id.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token's signature and expiry and returns the user id.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
