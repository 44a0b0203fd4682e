// Package auth resolves the opaque authenticated-user identity every engine
// call is scoped by. The engine consumes identities; issuing them belongs to
// the surrounding platform, so only an HS256 bearer-token parser and a
// token generator for tests and operator tooling live here.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"financas/internal/core"
)

// Identity is the authenticated caller. OwnerID scopes every persistence
// call; Email is carried into backup owner snapshots.
type Identity struct {
	OwnerID string
	Email   string
}

// Claims is the token payload: registered claims plus the owner's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Authenticator verifies bearer tokens against a shared secret.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator with the given HS256 secret.
func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret}
}

// Authenticate parses and verifies a bearer token, yielding the identity or
// core.ErrUnauthorized.
func (a *Authenticator) Authenticate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, core.ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return Identity{}, core.ErrUnauthorized
	}

	return Identity{OwnerID: claims.Subject, Email: claims.Email}, nil
}

// GenerateToken signs a token for the given identity.
func GenerateToken(id Identity, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.OwnerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Email: id.Email,
	})
	return token.SignedString(secret)
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext retrieves the identity, or core.ErrUnauthorized when absent.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.OwnerID == "" {
		return Identity{}, core.ErrUnauthorized
	}
	return id, nil
}
