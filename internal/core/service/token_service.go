package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

const (
	tokenIssuer   = "identity-service"
	tokenAudience = "tiendafast-clients"
	sessionTTL    = 30 * 24 * time.Hour
)

// TokenService mints HS256 bearer tokens holding only the account id.
// Roles are deliberately absent from the claims: every request re-resolves
// the account, so a role change bites on the next request, not next login.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService fails when the signing secret is absent; that is a
// process misconfiguration, not a request error.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    sessionTTL,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *TokenService) Issue(accountID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate checks signature, algorithm, issuer, audience, and expiry, and
// returns the embedded account id. Every failure collapses to
// domain.ErrInvalidToken; callers never learn which check tripped.
func (s *TokenService) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
