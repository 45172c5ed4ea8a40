// Package token issues and verifies the signed bearer tokens that prove a
// subject's identity without server-side session state.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures are sentinel errors so the request gate can log the
// distinct cause while treating both uniformly as "unauthenticated".
var (
	// ErrMalformed covers anything that fails to parse or whose signature
	// does not verify under the current signing key.
	ErrMalformed = errors.New("token is malformed or has an invalid signature")
	// ErrExpired means the signature verified but the expiry has elapsed.
	ErrExpired = errors.New("token has expired")
)

// Claims are the JWT claims carried by an access token. The subject is the
// principal's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 tokens. It is purely functional given
// the configured key and lifetime; both operations are safe for concurrent
// use.
type Service struct {
	signingKey []byte
	lifetime   time.Duration
	issuer     string
}

// NewService constructs a token service. The signing key must meet the HS256
// security margin; a short key is a caller misconfiguration, not a runtime
// condition this service handles.
func NewService(signingKey string, lifetime time.Duration, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		lifetime:   lifetime,
		issuer:     issuer,
	}
}

// Issue produces a signed token for the subject, expiring after the
// configured lifetime.
func (s *Service) Issue(subject string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its subject. Failures are
// ErrExpired when only the expiry has elapsed, ErrMalformed otherwise.
func (s *Service) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
