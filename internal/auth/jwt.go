package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// JWTManager mints and validates the API tokens clients (the CLI, a
// browser extension, a clipboard watcher) present as bearer tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// apiClaims extends standard JWT claims with the token scope.
type apiClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// Mint creates a signed HS256 token naming client as subject.
func (m *JWTManager) Mint(client, scope string) (string, time.Time, error) {
	if client == "" {
		return "", time.Time{}, domain.NewValidationError("client", "required")
	}
	if !ValidScope(scope) {
		return "", time.Time{}, domain.NewValidationError("scope", "must be full or capture")
	}

	now := m.now()
	expires := now.Add(m.ttl)
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   client,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Scope: scope,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses and validates a token. Every failure wraps
// domain.ErrUnauthorized.
func (m *JWTManager) Validate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &apiClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %v: %w", err, domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*apiClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	if !ValidScope(claims.Scope) {
		return Identity{}, fmt.Errorf("unknown scope %q: %w", claims.Scope, domain.ErrUnauthorized)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token id: %w", domain.ErrUnauthorized)
	}

	return Identity{Client: claims.Subject, TokenID: id, Scope: claims.Scope}, nil
}
