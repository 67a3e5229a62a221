// Package auth verifies operator access tokens issued by the identity
// provider.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/pkg/ctxutil"
)

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret []byte
	issuer string
	clock  clockwork.Clock
}

// NewVerifier creates a verifier. secret must be at least 32 characters for
// HS256 security.
func NewVerifier(secret, issuer string, clock clockwork.Clock) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		clock:  clock,
	}
}

// Claims is the access token payload: the operator ID as subject plus the
// operator's display name, email and role.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ValidateToken parses and validates a token and returns the operator it
// identifies. Every failure wraps domain.ErrUnauthorized.
func (v *Verifier) ValidateToken(_ context.Context, tokenString string) (ctxutil.Identity, error) {
	if tokenString == "" {
		return ctxutil.Identity{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return ctxutil.Identity{}, fmt.Errorf("parse token: %w", errors.Join(domain.ErrUnauthorized, err))
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return ctxutil.Identity{}, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return ctxutil.Identity{}, fmt.Errorf("invalid subject %q: %w", claims.Subject, domain.ErrUnauthorized)
	}

	return ctxutil.Identity{
		ID:    id,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
