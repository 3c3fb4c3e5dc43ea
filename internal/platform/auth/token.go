// Package auth issues and verifies principal session tokens and hashes
// credentials. A principal is either a patient or a doctor; the two kinds
// share a token format but are never interchangeable.
package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates principal types embedded in tokens.
type Kind string

const (
	KindPatient Kind = "patient"
	KindDoctor  Kind = "doctor"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated identity attached to a request context.
type Principal struct {
	ID   int64
	Kind Kind
}

// Claims is the token payload: subject carries the principal's row id,
// kind distinguishes patients from doctors.
type Claims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"kind"`
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for the given principal, expiring after the issuer's TTL.
func (i *Issuer) Issue(id int64, kind Kind) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Kind: kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns the principal it
// carries. Expired, malformed, or wrongly-signed tokens all fail.
func (i *Issuer) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	if claims.Kind != KindPatient && claims.Kind != KindDoctor {
		return Principal{}, fmt.Errorf("invalid principal kind %q", claims.Kind)
	}
	return Principal{ID: id, Kind: claims.Kind}, nil
}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
